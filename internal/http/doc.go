// Package http exposes the admin REST API over a document repository.
//
// Routes:
//   - Service: GET /, GET /schema, GET /test
//   - Users: POST /users
//   - Products: /products, /products/{id} (GET, POST, PUT, DELETE)
//   - Categories: GET/POST /categories, PUT/DELETE /categories/{id}
//   - Blogs: /blogs, /blogs/{id} (GET, POST, PUT, DELETE)
//   - Sale configuration: GET/PUT /sale
//
// Every route answers cross-origin requests from any origin.
package http
