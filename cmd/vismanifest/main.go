package main

import "github.com/forPelevin/vismanifest/internal/cli"

func main() { cli.Main() }
