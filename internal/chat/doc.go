// Package chat implements the storefront's two conversational widgets: the
// customer support bot and the creative studio.
//
// Both are built on Widget, which enforces one in-flight request at a time
// and plays each reply through a Typewriter before committing it to the
// transcript. Cancelling the context during playback abandons the reply:
// nothing partial is committed and the widget accepts input again.
package chat
