package backend

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"questionbank"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no active question has the requested id
var ErrNotFound = errors.New("question not found or deleted")

// Store persists questions in sqlite. Deleting only clears the active flag.
type Store struct {
	db *sql.DB
}

// OpenStore opens the sqlite database at dbPath and creates the schema
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serialises writers anyway; one connection also keeps a
	// ":memory:" database alive for the life of the store
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTables creates the questions table if it doesn't exist
func (s *Store) CreateTables() error {
	query := `CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		answers TEXT NOT NULL,
		right_answers TEXT NOT NULL,
		type_id INTEGER NOT NULL,
		difficulty INTEGER NOT NULL,
		is_ai INTEGER NOT NULL,
		language TEXT NOT NULL,
		keyword TEXT,
		active INTEGER NOT NULL
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create questions table: %w", err)
	}
	return nil
}

const questionColumns = "id, title, answers, right_answers, type_id, difficulty, is_ai, language, keyword, active"

// ListActive returns every question that has not been deleted, oldest first
func (s *Store) ListActive() ([]questionbank.Question, error) {
	rows, err := s.db.Query("SELECT " + questionColumns + " FROM questions WHERE active = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]questionbank.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// Get returns the active question with the given id
func (s *Store) Get(id int) (questionbank.Question, error) {
	row := s.db.QueryRow("SELECT "+questionColumns+" FROM questions WHERE id = ? AND active = 1", id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return questionbank.Question{}, ErrNotFound
	}
	return q, err
}

// Insert stores q as a new active question and returns its id
func (s *Store) Insert(q questionbank.Question) (int, error) {
	q.Normalize()
	answers, right, err := encodeOptions(q)
	if err != nil {
		return 0, err
	}

	res, err := s.db.Exec(
		"INSERT INTO questions (title, answers, right_answers, type_id, difficulty, is_ai, language, keyword, active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)",
		q.Title, answers, right, int(q.Type), int(q.Difficulty), q.IsAI, string(q.Language), q.Keyword,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read question id: %w", err)
	}
	return int(id), nil
}

// Update overwrites the stored record with q. is_ai and active are not
// changed by an edit.
func (s *Store) Update(q questionbank.Question) error {
	q.Normalize()
	answers, right, err := encodeOptions(q)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		"UPDATE questions SET title = ?, answers = ?, right_answers = ?, type_id = ?, difficulty = ?, language = ?, keyword = ? WHERE id = ? AND active = 1",
		q.Title, answers, right, int(q.Type), int(q.Difficulty), string(q.Language), q.Keyword, q.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", q.ID, err)
	}
	return expectOneRow(res, q.ID)
}

// Deactivate soft deletes the question with the given id
func (s *Store) Deactivate(id int) error {
	res, err := s.db.Exec("UPDATE questions SET active = 0 WHERE id = ? AND active = 1", id)
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row scanner) (questionbank.Question, error) {
	var (
		q              questionbank.Question
		answers, right string
		typeID, diff   int
		language       string
		keyword        sql.NullString
	)
	err := row.Scan(&q.ID, &q.Title, &answers, &right, &typeID, &diff, &q.IsAI, &language, &keyword, &q.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return q, err
		}
		return q, fmt.Errorf("failed to scan question: %w", err)
	}

	q.Type = questionbank.QuestionType(typeID)
	q.Difficulty = questionbank.Difficulty(diff)
	q.Language = questionbank.Language(language)
	q.Keyword = keyword.String

	if q.Answers, err = JSONToOptions(answers); err != nil {
		return q, fmt.Errorf("question %d: %w", q.ID, err)
	}
	if q.Right, err = JSONToOptions(right); err != nil {
		return q, fmt.Errorf("question %d: %w", q.ID, err)
	}
	return q, nil
}

func encodeOptions(q questionbank.Question) (string, string, error) {
	answers, err := OptionsToJSON(q.Answers)
	if err != nil {
		return "", "", err
	}
	right, err := OptionsToJSON(q.Right)
	if err != nil {
		return "", "", err
	}
	return answers, right, nil
}

func expectOneRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check question %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// OptionsToJSON converts an options slice to its stored JSON form
func OptionsToJSON(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to marshal options: %w", err)
	}
	return string(data), nil
}

// JSONToOptions converts a stored JSON array back to an options slice
func JSONToOptions(optionsJSON string) ([]string, error) {
	options := []string{}
	if optionsJSON == "" {
		return options, nil
	}
	if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if options == nil {
		options = []string{}
	}
	return options, nil
}
