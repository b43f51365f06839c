// Command litmap serves and queries the literary map orchestrator.
package main

func main() {
	Execute()
}
