// Package ui provides terminal output for isicfetch: colored status lines
// and a progress bar fed by the paginator's page and image notifications.
//
// Status lines go to stderr. Colors are disabled when stderr is not a
// terminal or NO_COLOR is set.
// Quiet mode suppresses everything except errors.
package ui
