// Package bot routes chat messages between a transport and the admission
// controller: query commands run through admission, plain text becomes a
// capture, and /status and /help answer locally. The transport is an
// interface; the package ships an in-memory fake and a console writer,
// real platform bindings live outside this repo.
package bot
