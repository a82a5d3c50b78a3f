// Package app contains the core application logic. It defines the main App
// struct, its configuration and the run lifecycle: load the pipeline files,
// build one merge task per declared merge and run them as a batch. It is
// decoupled from any specific entrypoint like a CLI.
package app
