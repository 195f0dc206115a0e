// ctspcli is an interactive console client for a ctspd server.
// Usage: go run ./cmd/ctspcli --addr localhost:8080
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/rickgao/ctsp-server/internal/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s\n", *addr)

	c := &client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		stdin:  bufio.NewScanner(os.Stdin),
	}
	c.run()
}

type client struct {
	conn   net.Conn
	reader *bufio.Reader
	stdin  *bufio.Scanner
	token  string
}

func (c *client) run() {
	for {
		fmt.Println()
		fmt.Println("1) ENTER  - log in or create an account")
		fmt.Println("2) SCAN   - view market prices")
		fmt.Println("3) BUY    - buy a coin")
		fmt.Println("4) SELL   - sell a coin")
		fmt.Println("5) CHECK  - view portfolio")
		fmt.Println("6) CHECK  - view trade history")
		fmt.Println("7) RANK   - view leaderboard")
		fmt.Println("8) EXIT   - log out")
		fmt.Println("9) quit")

		switch c.prompt("> ") {
		case "1":
			username := c.prompt("username: ")
			password := c.prompt("password: ")
			resp := c.send("ENTER", map[string]string{
				"username": username,
				"password": password,
			})
			if resp != nil && resp.Status == protocol.StatusOK {
				c.token = resp.Token
			}
		case "2":
			c.send("SCAN", nil)
		case "3":
			c.trade("BUY")
		case "4":
			c.trade("SELL")
		case "5":
			c.send("CHECK", map[string]string{"type": "portfolio"})
		case "6":
			c.send("CHECK", map[string]string{"type": "history"})
		case "7":
			c.send("RANK", nil)
		case "8":
			resp := c.send("EXIT", nil)
			if resp != nil && resp.Status == protocol.StatusOK {
				c.token = ""
			}
		case "9", "q", "quit":
			return
		default:
			fmt.Println("unknown choice")
		}
	}
}

func (c *client) trade(command string) {
	coin := c.prompt("coin: ")
	amount := c.prompt("amount: ")
	c.send(command, map[string]string{
		"coin":   coin,
		"amount": amount,
	})
}

func (c *client) send(command string, body any) *protocol.ParsedResponse {
	data, err := protocol.EncodeRequest(command, c.token, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode request: %v\n", err)
		return nil
	}
	if _, err := c.conn.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	resp, err := protocol.ReadResponse(c.reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d %s\n", resp.Status, resp.Reason)
	if len(resp.Body) > 0 {
		var pretty map[string]any
		if err := json.Unmarshal(resp.Body, &pretty); err == nil {
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(out))
		} else {
			fmt.Println(string(resp.Body))
		}
	}
	return resp
}

func (c *client) prompt(label string) string {
	fmt.Print(label)
	if !c.stdin.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(c.stdin.Text())
}
