package main

import (
	"github.com/joho/godotenv"

	"GoPolicyRAG/app/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
