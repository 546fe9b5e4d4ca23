package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"task-tracker/internal/model"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

const snapshotSchemaURL = "snapshot.schema.json"

type jsonSnapshot struct {
	Format      string         `json:"format"`
	Version     int            `json:"version"`
	Categories  []jsonCategory `json:"categories"`
	Users       []jsonUser     `json:"users"`
	Tasks       []jsonTask     `json:"tasks"`
	CurrentUser *int           `json:"current_user"`
}

type jsonCategory struct {
	Name string `json:"name"`
}

type jsonUser struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

type jsonTask struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Category    int       `json:"category"`
}

// JSONStore keeps a snapshot as a schema-validated JSON document.
type JSONStore struct {
	path   string
	schema *jsonschema.Schema
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, currentUser, err := snap.flatten()
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := checkUTF8(snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	doc := jsonSnapshot{
		Format:      FormatName,
		Version:     FormatVersion,
		Categories:  make([]jsonCategory, 0, len(snap.Categories)),
		Users:       make([]jsonUser, 0, len(snap.Users)),
		Tasks:       make([]jsonTask, 0, len(entries)),
		CurrentUser: currentUser,
	}
	for _, c := range snap.Categories {
		doc.Categories = append(doc.Categories, jsonCategory{Name: c.Name})
	}
	for _, u := range snap.Users {
		doc.Users = append(doc.Users, jsonUser{Username: u.Username, PasswordHash: u.PasswordHash})
	}
	for _, e := range entries {
		doc.Tasks = append(doc.Tasks, jsonTask{
			Title:       e.Title,
			Description: e.Description,
			DueDate:     e.DueDate,
			Category:    e.CategoryIndex,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	err = replaceFile(s.path, func(tmpPath string) error {
		return os.WriteFile(tmpPath, append(data, '\n'), 0o644)
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *JSONStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if missing := missingSnapshot(err); missing != nil {
			return nil, missing
		}
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}

	var raw interface{}
	rawDec := json.NewDecoder(bytes.NewReader(data))
	rawDec.UseNumber()
	if err := rawDec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}

	schema, err := s.compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}

	var doc jsonSnapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}
	if err := checkHeader(doc.Format, doc.Version); err != nil {
		return nil, err
	}

	categories := make([]*model.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		categories = append(categories, model.NewCategory(c.Name))
	}
	users := make([]*model.User, 0, len(doc.Users))
	for _, u := range doc.Users {
		users = append(users, &model.User{Username: u.Username, PasswordHash: u.PasswordHash})
	}
	entries := make([]TaskEntry, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		entries = append(entries, TaskEntry{
			Title:         t.Title,
			Description:   t.Description,
			DueDate:       t.DueDate,
			CategoryIndex: t.Category,
		})
	}

	return assemble(categories, users, entries, doc.CurrentUser)
}

// checkUTF8 rejects strings that encoding/json would rewrite to U+FFFD.
func checkUTF8(snap *Snapshot) error {
	invalid := func(kind, value string) error {
		return fmt.Errorf("%w: %s %q is not valid UTF-8", model.ErrValidation, kind, value)
	}
	for _, c := range snap.Categories {
		if !utf8.ValidString(c.Name) {
			return invalid("category name", c.Name)
		}
	}
	for _, u := range snap.Users {
		if !utf8.ValidString(u.Username) {
			return invalid("username", u.Username)
		}
		if !utf8.ValidString(u.PasswordHash) {
			return invalid("password hash of", u.Username)
		}
	}
	for _, t := range snap.Tasks {
		if !utf8.ValidString(t.Title) {
			return invalid("task title", t.Title)
		}
		if !utf8.ValidString(t.Description) {
			return invalid("description of task", t.Title)
		}
	}
	return nil
}

func (s *JSONStore) compiledSchema() (*jsonschema.Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader([]byte(snapshotSchemaJSON))); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(snapshotSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	s.schema = schema
	return schema, nil
}
