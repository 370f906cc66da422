package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const counterFilename = ".fika-counter.json"

// CounterData represents the on-disk counter file.
type CounterData struct {
	NextIndexID int    `json:"next_index_id"`
	SpecVersion string `json:"spec_version"`
}

// IDCounter hands out the short sequential index ids shown by the CLI.
type IDCounter struct {
	CounterData
	mu       sync.Mutex
	filePath string
}

// LoadIDCounter reads the counter for dir, creating it when missing. A new
// counter starts after the highest index id already present in dir.
func LoadIDCounter(dir string) (*IDCounter, error) {
	counterFile := filepath.Join(dir, counterFilename)

	data, err := os.ReadFile(counterFile)
	if err != nil {
		if os.IsNotExist(err) {
			counter := &IDCounter{
				CounterData: CounterData{
					NextIndexID: findMaxIndexID(dir) + 1,
					SpecVersion: "0.1.0",
				},
				filePath: counterFile,
			}
			if err := counter.save(); err != nil {
				return nil, fmt.Errorf("failed to save initial counter: %w", err)
			}
			return counter, nil
		}
		return nil, fmt.Errorf("failed to read counter file: %w", err)
	}

	var counterData CounterData
	if err := json.Unmarshal(data, &counterData); err != nil {
		return nil, fmt.Errorf("failed to parse counter file: %w", err)
	}
	if counterData.NextIndexID < 1 {
		counterData.NextIndexID = findMaxIndexID(dir) + 1
	}
	if counterData.SpecVersion == "" {
		counterData.SpecVersion = "0.1.0"
	}

	return &IDCounter{CounterData: counterData, filePath: counterFile}, nil
}

func findMaxIndexID(dir string) int {
	maxID := 0

	files, _ := filepath.Glob(filepath.Join(dir, "*.md"))
	for _, file := range files {
		contact, err := ParseContactFile(file)
		if err != nil {
			continue
		}
		if contact.IndexID > maxID {
			maxID = contact.IndexID
		}
	}

	return maxID
}

// NextID returns the next index ID and increments the counter.
func (c *IDCounter) NextID() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.CounterData.NextIndexID
	c.CounterData.NextIndexID++

	if err := c.save(); err != nil {
		c.CounterData.NextIndexID--
		return 0, fmt.Errorf("failed to save counter: %w", err)
	}

	return id, nil
}

func (c *IDCounter) save() error {
	data, err := json.MarshalIndent(c.CounterData, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal counter: %w", err)
	}

	tempFile := c.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, c.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename counter file: %w", err)
	}

	return nil
}
