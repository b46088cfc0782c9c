package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/acousticdna/acousticdna/internal/service"
	"github.com/acousticdna/acousticdna/pkg/logger"
)

func main() {
	log := logger.GetLogger()
	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Infof("executing command: %s", command)

	switch command {
	case "add":
		handleAdd()
	case "match":
		handleMatch()
	case "list":
		handleList()
	case "delete":
		handleDelete()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
   _                      _   _      ____  _   _    _
  / \   ___ ___  _   _ ___| |_(_) ___|  _ \| \ | |  / \
 / _ \ / __/ _ \| | | / __| __| |/ __| | | |  \| | / _ \
/ ___ \ (_| (_) | |_| \__ \ |_| | (__| |_| | |\  |/ ___ \
\_/   \_/___\___/ \__,_|___/\__|_|\___|____/|_| \_/_/   \_/

           Audio Fingerprinting CLI Tool
`
	fmt.Println(banner)
}

func newCLIService() *service.Service {
	svc, err := service.New()
	if err != nil {
		fmt.Printf("Failed to create service: %v\n", err)
		logger.GetLogger().Errorf("service initialization failed: %v", err)
		os.Exit(1)
	}
	return svc
}

func handleAdd() {
	log := logger.GetLogger()

	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	title := addCmd.String("title", "", "song title (required)")
	artist := addCmd.String("artist", "", "artist name (required)")

	if len(os.Args) < 3 {
		fmt.Println("Usage: acousticdna add <audio_file> --title <title> --artist <artist>")
		os.Exit(1)
	}
	audioPath := os.Args[2]
	addCmd.Parse(os.Args[3:])

	if *title == "" || *artist == "" {
		fmt.Println("Error: --title and --artist are required")
		os.Exit(1)
	}

	if info, err := os.Stat(audioPath); err == nil {
		fmt.Printf("Processing %s (%s)...\n", audioPath, humanize.Bytes(uint64(info.Size())))
	}

	svc := newCLIService()
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	songID, err := svc.Ingest(ctx, audioPath, *title, *artist)
	if err != nil {
		fmt.Printf("Failed to add song: %v\n", err)
		log.Errorf("Ingest failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("Added song to catalog:")
	fmt.Printf("   ID:     %s\n", songID)
	fmt.Printf("   Title:  %s\n", *title)
	fmt.Printf("   Artist: %s\n", *artist)
}

func handleMatch() {
	log := logger.GetLogger()

	if len(os.Args) < 3 {
		fmt.Println("Usage: acousticdna match <audio_file>")
		os.Exit(1)
	}
	audioPath := os.Args[2]

	svc := newCLIService()
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	matches, err := svc.IdentifyAll(ctx, audioPath)
	if err != nil {
		fmt.Printf("Failed to match song: %v\n", err)
		log.Errorf("IdentifyAll failed: %v", err)
		os.Exit(1)
	}

	if len(matches) == 0 {
		fmt.Println("No matches found in catalog")
		return
	}

	fmt.Printf("Found %d match(es):\n\n", len(matches))
	maxDisplay := 10
	if len(matches) < maxDisplay {
		maxDisplay = len(matches)
	}
	for i := 0; i < maxDisplay; i++ {
		m := matches[i]
		fmt.Printf("%d. %q by %s (confidence %.1f%%)\n", i+1, m.Title, m.Artist, m.Score*100)
	}
	if len(matches) > maxDisplay {
		fmt.Printf("... and %d more\n", len(matches)-maxDisplay)
	}
}

func handleList() {
	log := logger.GetLogger()

	svc := newCLIService()
	defer svc.Close()

	songs, err := svc.ListSongs(context.Background())
	if err != nil {
		fmt.Printf("Failed to list songs: %v\n", err)
		log.Errorf("ListSongs failed: %v", err)
		os.Exit(1)
	}

	if len(songs) == 0 {
		fmt.Println("No songs in catalog")
		return
	}

	fmt.Printf("Found %d song(s):\n\n", len(songs))
	for i, song := range songs {
		dur := time.Duration(song.Fingerprint.DurationSec * float64(time.Second))
		fmt.Printf("%d. %q by %s (ID: %s)\n", i+1, song.Title, song.Artist, song.ID)
		fmt.Printf("   Duration: %s (%d hashes)\n", dur.Round(time.Second), len(song.Fingerprint.Hashes))
	}
}

func handleDelete() {
	log := logger.GetLogger()

	if len(os.Args) < 3 {
		fmt.Println("Usage: acousticdna delete <song_id>")
		os.Exit(1)
	}
	songID := os.Args[2]

	svc := newCLIService()
	defer svc.Close()

	ctx := context.Background()
	entry, ok, err := svc.GetSong(ctx, songID)
	if err != nil || !ok {
		fmt.Printf("Song not found (ID: %s)\n", songID)
		os.Exit(1)
	}

	deleted, err := svc.DeleteSong(ctx, songID)
	if err != nil || !deleted {
		fmt.Printf("Failed to delete song: %v\n", err)
		log.Errorf("DeleteSong failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("Deleted song:")
	fmt.Printf("   ID:     %s\n", entry.ID)
	fmt.Printf("   Title:  %s\n", entry.Title)
	fmt.Printf("   Artist: %s\n", entry.Artist)
}

func printUsage() {
	fmt.Println("AcousticDNA - Audio Fingerprinting CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  acousticdna add <audio_file> --title <title> --artist <artist>")
	fmt.Println("  acousticdna match <audio_file>")
	fmt.Println("  acousticdna list")
	fmt.Println("  acousticdna delete <song_id>")
}
