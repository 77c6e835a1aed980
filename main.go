// main.go
package main

import (
	"log"

	"ticketdesk/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
