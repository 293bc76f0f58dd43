// Package api provides the Forbin REST API client.
//
// Endpoint:
//   - Production: https://app.forbin-capital.com/api
//
// Authentication is a single form POST to {endpoint}/token; the returned token is sent
// as "Authorization: Token <token>" on every other request. Collection routes always
// carry a trailing slash: {endpoint}/{subroute}/ and {endpoint}/{subroute}/{id}/.
//
// Collections: challenges, groundtruths, submissions, transactions, datasets
package api
