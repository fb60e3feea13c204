// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle: load the templates,
// load the blueprint, build the network and print its emission plan. It is
// decoupled from any specific entrypoint like a CLI.
package app
