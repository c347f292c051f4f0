package catalog

import "gameroom-backend/internal/models"

// defaultGame is the built-in general-knowledge set served for
// DefaultGameID. It lives in code, not in the database, so demo rooms work
// on a completely empty catalog.
func defaultGame() *GameData {
	return &GameData{
		Title: "General Knowledge",
		Mode:  models.RoomModeQuiz,
		Questions: []models.Question{
			{
				Text:      "What is the capital of France?",
				Answer:    "Paris",
				TimeLimit: 30,
				Points:    100,
				Options: []models.Option{
					{Text: "London"}, {Text: "Berlin"}, {Text: "Madrid"},
				},
			},
			{
				Text:      "How many continents are there?",
				Answer:    "7",
				TimeLimit: 30,
				Points:    100,
				Options: []models.Option{
					{Text: "5"}, {Text: "6"}, {Text: "8"},
				},
			},
			{
				Text:      "Which planet is known as the Red Planet?",
				Answer:    "Mars",
				TimeLimit: 30,
				Points:    100,
				Options: []models.Option{
					{Text: "Venus"}, {Text: "Jupiter"}, {Text: "Saturn"},
				},
			},
			{
				Text:      "What is the largest ocean on Earth?",
				Answer:    "Pacific",
				TimeLimit: 30,
				Points:    100,
				Options: []models.Option{
					{Text: "Atlantic"}, {Text: "Indian"}, {Text: "Arctic"},
				},
			},
			{
				Text:      "In which year did World War II end?",
				Answer:    "1945",
				TimeLimit: 30,
				Points:    100,
				Options: []models.Option{
					{Text: "1943"}, {Text: "1944"}, {Text: "1946"},
				},
			},
		},
	}
}
