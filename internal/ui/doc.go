// Package ui provides the Bubble Tea terminal interface of the viewer.
//
// # Overview
//
// The screen has three parts: a one-line header with the frame caption,
// its position in the timeline and the poller's health; the frame area,
// which shows the snapshot as half-block pixels or, with preview off, the
// caption and resolved image address; and a one-line command bar that
// doubles as the manifest URL input.
//
// # Data Flow
//
// The model never mutates the timeline directly. Navigation keys run a
// navigator action in a command and the result arrives as navDoneMsg. A
// one-second tick reads timeline.Snapshot; when the current frame differs
// from the one on screen a display request starts with a fresh
// resolve.Slot token. Resolution, fetch and decode happen off the update
// loop, and a frameMsg carrying a superseded token is dropped, so the last
// issued request always wins.
//
// # Focus
//
// Key input goes to exactly one of: the viewer, the URL input, the help
// dialog or the activity overlay. The help dialog owns all input while
// open; Esc or the help key closes it and focus returns to whichever of
// the viewer or URL input held it before. While typing a URL, ? and h are
// text, so help opens with F1 there.
//
// # Errors
//
// A manifest that cannot be loaded at startup is shown as a blocking
// banner with retry (r) and open-URL (o) hints; the session keeps running.
// Later load and navigation failures appear in the command bar.
package ui
