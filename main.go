package main

import "github.com/Memrise/mypy-json-report/cmd"

func main() {
	cmd.Execute()
}
