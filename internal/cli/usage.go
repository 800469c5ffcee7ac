package cli

import (
	"fmt"
	"io"
)

func printModeError(w io.Writer) {
	fmt.Fprintln(w, "SECURITY_MODE argument is missing or incorrect!")
	printUsage(w)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: keyring-tool SECURITY_MODE=<SECURITY_MODE>")
	fmt.Fprintln(w, "SECURITY_MODE: [set, get]")
	fmt.Fprintln(w, "For 'SECURITY_MODE=get' use environment variables SERVICE_NAME "+
		"and SERVICE_USER to obtain a SERVICE_PASSWORD")
	fmt.Fprintln(w, "For 'SECURITY_MODE=set' use additionally environment variable SERVICE_PASSWORD "+
		"to save securely <SERVICE_PASSWORD> for <SERVICE_USER> and <SERVICE_NAME>")
}
