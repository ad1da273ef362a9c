package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Offline inspector for the messenger keyspace. Opens the store
// read-only and renders conversations, memberships or messages as a
// table, depending on the scanned prefix.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (conv:, member:, msg:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Timestamp", "Who", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Skip the index entries, they carry no JSON payload
			if strings.HasPrefix(key, "userconv:") ||
				strings.HasPrefix(key, "direct:") ||
				strings.HasPrefix(key, "msgid:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, err := renderRow(key, v)
				if err != nil {
					// Log and keep scanning instead of stopping the dump
					fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func renderRow(key string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(key, "conv:"):
		var record struct {
			Kind      string    `json:"kind"`
			Name      string    `json:"name"`
			Status    string    `json:"status"`
			CreatedAt time.Time `json:"created_at"`
		}
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, err
		}
		detail := record.Name
		if record.Status != "" {
			detail = fmt.Sprintf("%s [%s]", record.Name, record.Status)
		}
		return []string{key, record.Kind, record.CreatedAt.Format("15:04:05"), "", detail}, nil

	case strings.HasPrefix(key, "member:"):
		var record struct {
			UserID   string    `json:"user_id"`
			Role     string    `json:"role"`
			JoinedAt time.Time `json:"joined_at"`
		}
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, err
		}
		return []string{key, "MEMBER", record.JoinedAt.Format("15:04:05"), record.UserID, record.Role}, nil

	case strings.HasPrefix(key, "msg:"):
		var record struct {
			SenderID  *string   `json:"sender_id"`
			Body      string    `json:"body"`
			CreatedAt time.Time `json:"created_at"`
		}
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, err
		}
		sender := "(deleted)"
		if record.SenderID != nil {
			sender = *record.SenderID
		}
		body := record.Body
		if len(body) > 48 {
			body = body[:48] + "..."
		}
		return []string{key, "MESSAGE", record.CreatedAt.Format("15:04:05"), sender, body}, nil
	}
	return []string{key, "?", "", "", string(value)}, nil
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// Corrupted value log: open once in write mode to truncate,
		// then retry read-only
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
