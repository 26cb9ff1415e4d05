// Package cli implements the gophid command-line client.
//
// Commands:
//
//	register   create an account and print its session token
//	login      sign in with email and password and print the token
//	profile    show the account for the token given by -t or $GOPHID_TOKEN
//	ping       check that the server is reachable
//
// Passwords are read from the terminal without echo.
package cli
