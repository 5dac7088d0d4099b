package main

import "github.com/brocaar/chirpstack-region/cmd/chirpstack-region/cmd"

// version is set at build time using -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.Execute(version)
}
