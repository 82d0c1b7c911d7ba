// Package httpclient issues single outbound calls to the payment gateway.
//
// Redirects are followed manually (301 and 302 only, at most MaxRedirects
// hops) so that POST bodies and credential headers are replayed on the new
// location instead of being dropped by net/http's default policy.
package httpclient
