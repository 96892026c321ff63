// Package cli implements the terminal front end of the notes client: an
// interactive REPL built on chzyer/readline and one-shot cobra commands.
//
// Both share App.Exec, which consults the route guard before running a
// command. Commands on the notes view mount it first, which triggers the
// initial fetch.
//
// Commands
//
//	help                 list the commands available in the current view
//	register             create an account (email verification follows)
//	login [email]        sign in
//	verify [token]       confirm an email address
//	forgot [email]       request a password reset link
//	reset [token]        choose a new password
//	logout               sign out
//	whoami [--remote]    show the signed-in user
//	list                 show the notes
//	add [#color]         create a note
//	edit <n|id>          edit a note
//	delete <n|id>        delete a note after confirmation
//	summary <n|id>       summarize a note
//	refresh              reload the notes
//	exit | quit          leave
package cli
