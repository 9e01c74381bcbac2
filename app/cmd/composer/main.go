package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"emailcomposer/internal/client"
)

func main() {
	server := flag.String("server", client.DefaultBaseURL, "backend base URL")
	to := flag.String("to", "", "recipient address")
	subject := flag.String("subject", "", "email subject (default \"AI Generated Email\")")
	prompt := flag.String("prompt", "", "prompt used to draft the email")
	send := flag.Bool("send", false, "send the draft after generating it")
	edit := flag.Bool("edit", false, "read the final email body from stdin before sending")
	timeout := flag.Duration("timeout", 3*time.Minute, "timeout for each backend call")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Plain lines for a terminal, structured records when stderr is piped.
	var out client.Notifier = client.NotifierFunc(func(n client.Notification) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Text)
	})
	if !isTerminal(os.Stderr) {
		out = client.LogNotifier{Logger: slog.New(slog.NewJSONHandler(os.Stderr, nil))}
	}

	failed := false
	notifier := client.NotifierFunc(func(n client.Notification) {
		if n.Level != client.LevelSuccess {
			failed = true
		}
		out.Notify(n)
	})

	form := client.NewForm(client.NewHTTPClient(*server, *timeout), notifier, logger)
	form.SetRecipient(*to)
	form.SetPrompt(*prompt)
	if *subject != "" {
		form.SetSubject(*subject)
	}

	form.Generate(ctx)
	if failed {
		os.Exit(1)
	}
	fmt.Println(form.Fields().EmailContent)

	if !*send {
		return
	}

	if *edit {
		body, err := readAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read draft: %v\n", err)
			os.Exit(1)
		}
		if strings.TrimSpace(body) != "" {
			form.SetEmailContent(body)
		}
	}

	form.Send(ctx)
	if failed {
		os.Exit(1)
	}
}

func readAll(f *os.File) (string, error) {
	var b strings.Builder
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		b.WriteString(sc.Text())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), sc.Err()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
