package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jinzhu/gorm"
	uuid "github.com/satori/go.uuid"

	"github.com/kiri-wys/chetro/board"
)

// Config is the config file for the db and api
type Config struct {
	DbType          string `json:"dbType"`
	DbConnectionStr string `json:"dbConnectionStr"`
	Port            int    `json:"port"`
	Layout          string `json:"layout"`
	EnforceTurns    bool   `json:"enforceTurns"`
	PrintBoard      bool   `json:"printBoard"`
}

func defaultConfig() Config {
	return Config{
		DbType:          "sqlite3",
		DbConnectionStr: "chetro.db",
		Port:            8080,
		Layout:          "standard",
		EnforceTurns:    true,
	}
}

// readConfig overlays the file at path on the defaults.
func readConfig(path string) (Config, error) {
	config := defaultConfig()
	bytes, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(bytes, &config)
	return config, err
}

// Game is an individual chess game.
type Game struct {
	Model
	GameID      uuid.UUID `json:"gameID"`
	Layout      string    `json:"layout"`
	WhitePlayer []byte    `json:"-"`
	BlackPlayer []byte    `json:"-"`
}

// player returns the public key that claimed side, if any.
func (g Game) player(side string) []byte {
	if side == sideWhite {
		return g.WhitePlayer
	}
	return g.BlackPlayer
}

// BoardState is a single moment in time for a chess board
type BoardState struct {
	Model
	GameID     uuid.UUID `json:"gameID"`
	Ply        int       `json:"ply"`
	State      []byte    `json:"-"`
	FEN        string    `json:"fen,omitempty"`
	MoveAuthor string    `json:"moveAuthor"`
	Move       string    `json:"move,omitempty"`
}

// Model that hides unnecessary fields in json
type Model struct {
	ID        uint       `json:"-" gorm:"primary_key"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
	DeletedAt *time.Time `json:"-" sql:"index"`
}

func getDB(config Config) *gorm.DB {
	// initialize database, support sqlite and mysql
	db, err := gorm.Open(config.DbType, config.DbConnectionStr)
	check(err)
	if config.DbType == "sqlite3" {
		// one connection keeps :memory: databases alive and writes serialized
		db.DB().SetMaxOpenConns(1)
	}

	db.AutoMigrate(Game{})
	db.AutoMigrate(BoardState{})

	return db
}

func serializeBoard(m *board.Match) ([]byte, error) {
	return json.Marshal(m.Layout())
}

func deserializeBoard(dat []byte) (board.Layout, error) {
	var layout board.Layout
	err := json.Unmarshal(dat, &layout)
	return layout, err
}

// storeBoardState appends the position of m after author's move.
func storeBoardState(db *gorm.DB, gameID uuid.UUID, ply int, m *board.Match, moveAuthor, move string) (BoardState, error) {
	state, err := serializeBoard(m)
	if err != nil {
		return BoardState{}, err
	}
	fen, _ := m.FEN()
	row := BoardState{
		GameID:     gameID,
		Ply:        ply,
		State:      state,
		FEN:        fen,
		MoveAuthor: moveAuthor,
		Move:       move,
	}
	return row, db.Create(&row).Error
}

// lastBoardState returns the most recent position of a game.
func lastBoardState(db *gorm.DB, gameID uuid.UUID) (BoardState, error) {
	row := BoardState{}
	err := db.Where("game_id = ?", gameID).Order("ply desc").First(&row).Error
	return row, err
}

// restoreMatch rebuilds the live match from a stored position.
func restoreMatch(row BoardState, enforceTurns bool) (*board.Match, error) {
	layout, err := deserializeBoard(row.State)
	if err != nil {
		return nil, err
	}
	opts := []board.Option{board.WithTurn(nextMover(row.MoveAuthor))}
	if enforceTurns {
		opts = append(opts, board.WithTurnOrder())
	}
	return board.NewMatch(layout, opts...)
}
