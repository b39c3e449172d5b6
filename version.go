package main

// Version is injected at build time via -ldflags "-X main.Version=v1.x.x".
// Builds without it report "dev" and launch the backend from source.
var Version = "dev"
