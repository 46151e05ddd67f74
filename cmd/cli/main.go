package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
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
	case "project":
		handleProject(args)
	case "task":
		handleTask(args)
	case "team":
		handleTeam(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: projecthub auth <register|login|logout|who>")
		return
	}

	switch args[0] {
	case "register":
		registerUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		os.Remove(tokenFile())
		fmt.Println("✓ Logged out")
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleProject(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: projecthub project <list|create|delete>")
		return
	}

	switch args[0] {
	case "list":
		listProjects()
	case "create":
		createProject(args[1:])
	case "delete":
		deleteResource("projects", args[1:], "project")
	default:
		fmt.Printf("unknown project command: %s\n", args[0])
	}
}

func handleTask(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: projecthub task <list|create|delete>")
		return
	}

	switch args[0] {
	case "list":
		listTasks()
	case "create":
		createTask(args[1:])
	case "delete":
		deleteResource("tasks", args[1:], "task")
	default:
		fmt.Printf("unknown task command: %s\n", args[0])
	}
}

func handleTeam(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: projecthub team <list|add|remove>")
		return
	}

	switch args[0] {
	case "list":
		listTeam()
	case "add":
		addTeamMember(args[1:])
	case "remove":
		deleteResource("team", args[1:], "team member")
	default:
		fmt.Printf("unknown team command: %s\n", args[0])
	}
}

func registerUser(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	company := fs.String("company", "", "company name")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	env, status, err := post("/auth/register", map[string]string{
		"email":        *email,
		"password":     *password,
		"company_name": *company,
	}, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ User registered: %s\n", *email)
	} else {
		fmt.Printf("✗ Registration failed: %s\n", env.Message)
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	env, status, err := post("/auth/login", map[string]string{"email": *email, "password": *password}, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status != http.StatusOK {
		fmt.Printf("✗ Login failed: %s\n", env.Message)
		return
	}

	data, _ := env.Data.(map[string]interface{})
	if token, ok := data["token"].(string); ok {
		saveToken(token)
		fmt.Printf("✓ Logged in as: %s\n", *email)
	}
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:min(20, len(token))])
}

func listProjects() {
	env, err := get("/projects")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	items, _ := env.Data.([]interface{})
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	for _, item := range items {
		p, _ := item.(map[string]interface{})
		fmt.Fprintf(w, "%v\t%v\t%v\n", p["id"], p["name"], p["status"])
	}
	w.Flush()
}

func createProject(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "project name")
	description := fs.String("description", "", "project description")
	fs.Parse(args)

	if *name == "" {
		fmt.Println("Error: name is required")
		return
	}

	env, status, err := post("/projects", map[string]string{"name": *name, "description": *description}, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ Project created: %s\n", *name)
	} else {
		fmt.Printf("✗ Create failed: %s\n", env.Message)
	}
}

func listTasks() {
	env, err := get("/tasks")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	items, _ := env.Data.([]interface{})
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tTITLE\tSTATUS")
	for _, item := range items {
		t, _ := item.(map[string]interface{})
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", t["id"], t["project_id"], t["title"], t["status"])
	}
	w.Flush()
}

func createTask(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	projectID := fs.Int64("project", 0, "project id")
	title := fs.String("title", "", "task title")
	description := fs.String("description", "", "task description")
	fs.Parse(args)

	if *projectID == 0 || *title == "" {
		fmt.Println("Error: project and title are required")
		return
	}

	env, status, err := post("/tasks", map[string]interface{}{
		"project_id":  *projectID,
		"title":       *title,
		"description": *description,
	}, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ Task created: %s\n", *title)
	} else {
		fmt.Printf("✗ Create failed: %s\n", env.Message)
	}
}

func listTeam() {
	env, err := get("/team")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	items, _ := env.Data.([]interface{})
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE")
	for _, item := range items {
		m, _ := item.(map[string]interface{})
		fmt.Fprintf(w, "%v\t%v\t%v\n", m["id"], m["email"], m["role"])
	}
	w.Flush()
}

func addTeamMember(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	email := fs.String("email", "", "member email")
	role := fs.String("role", "member", "member role")
	fs.Parse(args)

	if *email == "" {
		fmt.Println("Error: email is required")
		return
	}

	env, status, err := post("/team", map[string]string{"email": *email, "role": *role}, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ Team member added: %s\n", *email)
	} else {
		fmt.Printf("✗ Add failed: %s\n", env.Message)
	}
}

func deleteResource(resource string, args []string, label string) {
	if len(args) < 1 {
		fmt.Printf("Usage: projecthub %s delete <id>\n", label)
		return
	}

	req, _ := http.NewRequest(http.MethodDelete, getAPIURL()+"/"+resource+"/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	if env.Success {
		fmt.Printf("✓ %s\n", env.Message)
	} else {
		fmt.Printf("✗ %s\n", env.Message)
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func get(path string) (*envelope, error) {
	req, _ := http.NewRequest(http.MethodGet, getAPIURL()+path, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if !env.Success {
		return &env, fmt.Errorf("%s", env.Message)
	}
	return &env, nil
}

func post(path string, payload interface{}, authed bool) (*envelope, int, error) {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, getAPIURL()+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		addAuthHeader(req)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	return &env, resp.StatusCode, nil
}

func getAPIURL() string {
	if url := os.Getenv("PROJECTHUB_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api/v1"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.projecthub/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.projecthub", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`ProjectHub CLI

Usage:
  projecthub <command> [options]

Commands:
  auth     User authentication (register, login, logout, who)
  project  Project operations (list, create, delete)
  task     Task operations (list, create, delete)
  team     Team operations (list, add, remove)
  help     Show this help message

Environment Variables:
  PROJECTHUB_API    API endpoint (default: http://localhost:8080/api/v1)

Examples:
  projecthub auth register -email user@example.com -password pass -company Acme
  projecthub auth login -email user@example.com -password pass
  projecthub project create -name "Website refresh"
  projecthub task list
`)
}
