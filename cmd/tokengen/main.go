package main

import (
	"flag"
	"fmt"
	"os"

	"intake-backend/jwt"
)

func main() {
	s := flag.String("secret", os.Getenv("JWT_SECRET"), "Key used to sign the token, defaults to $JWT_SECRET")
	e := flag.String("email", "", "Email claim of the token")
	ttl := flag.Duration("ttl", 0, "Token lifetime, 0 for no expiry")
	flag.Parse()

	if *s == "" {
		fmt.Println("--secret is required")
		os.Exit(1)
	}

	if *e == "" {
		fmt.Println("--email is required")
		os.Exit(1)
	}

	if *ttl < 0 {
		fmt.Println("--ttl must not be negative")
		os.Exit(1)
	}

	ss, err := jwt.NewIssuer([]byte(*s), *ttl).Issue(*e)
	if err != nil {
		fmt.Println("Signing failure:", err)
		os.Exit(1)
	}

	fmt.Println("Token successfully generated:", ss)
}
