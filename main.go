package main

import (
	"fmt"

	"maengelportal/connection"
	"maengelportal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not loaded, fallback to OS env vars")
	}

	go scheduler.StartScheduler()

	connection.StartServer()
}
