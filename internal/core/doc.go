// Package core is the application layer of the panel.
//
// It joins the document masks of package mask with the admin login of
// package auth, independent of any transport. The web server and the
// painelctl CLI both go through [Service].
//
// # Documents
//
// [Service.FormatDocument] formats one value for an explicit kind.
// [Service.FormatFields] takes form fields as the page submits them
// (id, name, placeholder, value), detects which ones hold a CPF, RG or CNPJ
// and formats only those; every other field passes through unchanged.
//
// # Login
//
// [Service.Login], [Service.Verify] and [Service.Logout] delegate to
// auth.Service and log each attempt with the client IP and user agent
// carried by [WithRequestMeta]. Revoked tokens held in memory are dropped
// once expired by [Service.StartRevocationJanitor].
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError]:
//
//   - AUTH001-AUTH006: login and session errors
//   - MASK001-MASK002: document errors
//   - NET001-NET004: connectivity errors
//   - REQ001, RATE001: malformed and throttled requests
package core
