// Package games loads recorded chess games from tabular files.
package games

// Winner values as they appear in the dataset.
const (
	WinnerWhite = "white"
	WinnerBlack = "black"
	WinnerDraw  = "draw"
)

// Column names required in every input file.
const (
	ColWhiteID       = "white_id"
	ColBlackID       = "black_id"
	ColWhiteRating   = "white_rating"
	ColBlackRating   = "black_rating"
	ColWinner        = "winner"
	ColIncrementCode = "increment_code"
	ColTurns         = "turns"
	ColVictoryStatus = "victory_status"
	ColOpeningName   = "opening_name"
)

// RequiredColumns in the order they are reported when missing.
var RequiredColumns = []string{
	ColWhiteID, ColBlackID, ColWhiteRating, ColBlackRating, ColWinner,
	ColIncrementCode, ColTurns, ColVictoryStatus, ColOpeningName,
}

// GameRecord is one row of input.
type GameRecord struct {
	WhiteID       string
	BlackID       string
	WhiteRating   float64
	BlackRating   float64
	Winner        string
	IncrementCode string
	Turns         int
	VictoryStatus string
	OpeningName   string
}

// Dataset is the result of loading a file.
type Dataset struct {
	Name     string
	Rows     int // data rows seen in the file
	Records  []GameRecord
	Warnings []string
}
