package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "catway":
		handleCatway(args)
	case "reservation":
		handleReservation(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`harbormaster CLI

Usage:
  harbormaster auth <login|logout|who>
  harbormaster catway <list|get|add|delete>
  harbormaster reservation <list>

Environment:
  HARBORMASTER_URL  API base URL (default http://localhost:8080)`)
}

func baseURL() string {
	if url := os.Getenv("HARBORMASTER_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:8080"
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".harbormaster-token"
	}
	return filepath.Join(home, ".harbormaster-token")
}

func savedToken() string {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func doRequest(method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, baseURL()+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := savedToken(); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	// The server slides the session window on every protected call;
	// persist the refreshed token it hands back.
	if fresh := resp.Header.Get("Authorization"); fresh != "" {
		os.WriteFile(tokenPath(), []byte(fresh), 0600)
	}

	return resp, nil
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: harbormaster auth <login|logout|who>")
		return
	}

	switch args[0] {
	case "login":
		loginUser(args[1:])
	case "logout":
		os.Remove(tokenPath())
		fmt.Println("logged out")
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(1)
	}

	resp, err := doRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    *email,
		"password": *password,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "login failed: %s\n", resp.Status)
		os.Exit(1)
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode response: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(tokenPath(), []byte(result.Token), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("logged in as %s <%s>\n", result.User.Username, result.User.Email)
}

func whoAmI() {
	if savedToken() == "" {
		fmt.Println("not logged in")
		return
	}
	fmt.Println("token saved at", tokenPath())
}

func handleCatway(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: harbormaster catway <list|get|add|delete>")
		return
	}

	switch args[0] {
	case "list":
		listCatways()
	case "get":
		getCatway(args[1:])
	case "add":
		addCatway(args[1:])
	case "delete":
		deleteCatway(args[1:])
	default:
		fmt.Printf("unknown catway command: %s\n", args[0])
	}
}

func listCatways() {
	resp, err := doRequest(http.MethodGet, "/catways", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var catways []struct {
		Number int    `json:"catwayNumber"`
		Type   string `json:"catwayType"`
		State  string `json:"catwayState"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&catways); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode response: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTYPE\tSTATE\tSTATUS")
	for _, c := range catways {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.Number, c.Type, c.State, c.Status)
	}
	w.Flush()
}

func getCatway(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: harbormaster catway get <number>")
		os.Exit(1)
	}

	resp, err := doRequest(http.MethodGet, "/catways/"+args[0], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printBody(resp)
}

func addCatway(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	number := fs.Int("number", 0, "catway number")
	catwayType := fs.String("type", "long", "catway type (long|short)")
	state := fs.String("state", "", "catway state description")
	fs.Parse(args)

	resp, err := doRequest(http.MethodPost, "/catways", map[string]interface{}{
		"catwayNumber": *number,
		"catwayType":   *catwayType,
		"catwayState":  *state,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printBody(resp)
}

func deleteCatway(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: harbormaster catway delete <number>")
		os.Exit(1)
	}

	resp, err := doRequest(http.MethodDelete, "/catways/"+args[0], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printBody(resp)
}

func handleReservation(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: harbormaster reservation <list>")
		return
	}

	switch args[0] {
	case "list":
		listReservations()
	default:
		fmt.Printf("unknown reservation command: %s\n", args[0])
	}
}

func listReservations() {
	resp, err := doRequest(http.MethodGet, "/reservations", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var reservations []struct {
		ID         string `json:"id"`
		Number     int    `json:"catwayNumber"`
		ClientName string `json:"clientName"`
		BoatName   string `json:"boatName"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reservations); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode response: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATWAY\tCLIENT\tBOAT\tSTART\tEND")
	for _, r := range reservations {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", r.ID, r.Number, r.ClientName, r.BoatName, r.StartDate, r.EndDate)
	}
	w.Flush()
}

func printBody(resp *http.Response) {
	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", resp.Status)
		return
	}
	out, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(out))
}
