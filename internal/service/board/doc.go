// Package board owns the set of clock cards shown to the user.
//
// App is the single authority on which cards exist. It binds each card to a
// zone from the registry, refreshes the face, date label and background of a
// card from one resolved instant, and asks a Scheduler to keep frames coming
// whenever a card is added.
package board
