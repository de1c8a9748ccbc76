// Package storage keeps per-guild bot records in the JSON datastore.
package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/keshon/ainnie/datastore"
)

const commandHistoryLimit = 20

type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

// CommandHistoryRecord is one successfully dispatched command.
type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

// Record is what is stored per guild.
type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	CommandsTotal       int                    `json:"cmd_total"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// NewWithStore wraps an already opened datastore.
func NewWithStore(ds *datastore.DataStore) *Storage {
	return &Storage{ds: ds}
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func (s *Storage) guildRecord(guildID string) (*Record, error) {
	var record Record
	if _, err := s.ds.Get(guildID, &record); err != nil {
		return nil, fmt.Errorf("guild record %s: %w", guildID, err)
	}
	return &record, nil
}

// AppendCommandToHistory appends a record for a guild, keeping only the most
// recent entries.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	if n := len(record.CommandsHistoryList); n > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[n-commandHistoryLimit:]
	}
	record.CommandsTotal++

	return s.ds.Put(guildID, record)
}

// FetchCommandHistory returns the recent history of a guild, oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}

// CommandsTotal returns how many commands were ever recorded for a guild.
func (s *Storage) CommandsTotal(guildID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return record.CommandsTotal, nil
}
