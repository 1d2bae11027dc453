// Package middleware groups the Fiber middleware installed in front of the
// compare and datasets routes.
//
// Subpackages:
//
//   - rayid: tags each request with an identifier that is echoed in the
//     X-Ray-ID response header, carried in log lines and reused as the
//     folder name of exported comparison results.
//   - auth: requires the configured API key on every route registered after it.
//     The Swagger UI is mounted before it and stays public.
package middleware
