package memory

import "trivia-quiz-service/internal/domain"

// FallbackQuestions is the built-in bank served when no source is configured or the
// source is down. Its tiers (8 easy, 8 medium, 4 hard) admit a 10-question,
// 100-point quiz.
func FallbackQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "What is the capital of France?", Options: []string{"London", "Berlin", "Paris", "Madrid"}, CorrectIndex: 2, Score: domain.EasyScore},
		{ID: 2, Text: "Which programming language is known for its use in web development and has a React library?", Options: []string{"Python", "JavaScript", "Java", "C++"}, CorrectIndex: 1, Score: domain.MediumScore},
		{ID: 3, Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1, Score: domain.EasyScore},
		{ID: 4, Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectIndex: 1, Score: domain.EasyScore},
		{ID: 5, Text: "What is the largest ocean on Earth?", Options: []string{"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"}, CorrectIndex: 3, Score: domain.EasyScore},
		{ID: 6, Text: "Who wrote 'Romeo and Juliet'?", Options: []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, CorrectIndex: 1, Score: domain.MediumScore},
		{ID: 7, Text: "What is the chemical symbol for gold?", Options: []string{"Go", "Gd", "Au", "Ag"}, CorrectIndex: 2, Score: domain.MediumScore},
		{ID: 8, Text: "Which year did World War II end?", Options: []string{"1944", "1945", "1946", "1947"}, CorrectIndex: 1, Score: domain.MediumScore},
		{ID: 9, Text: "What is the smallest prime number?", Options: []string{"0", "1", "2", "3"}, CorrectIndex: 2, Score: domain.EasyScore},
		{ID: 10, Text: "Which continent is the largest by area?", Options: []string{"Africa", "Asia", "North America", "Europe"}, CorrectIndex: 1, Score: domain.EasyScore},
		{ID: 11, Text: "What is the speed of light in vacuum?", Options: []string{"300,000 km/s", "150,000 km/s", "450,000 km/s", "600,000 km/s"}, CorrectIndex: 0, Score: domain.HardScore},
		{ID: 12, Text: "Which HTML tag is used to create a hyperlink?", Options: []string{"<link>", "<a>", "<href>", "<url>"}, CorrectIndex: 1, Score: domain.MediumScore},
		{ID: 13, Text: "What is the square root of 144?", Options: []string{"10", "11", "12", "13"}, CorrectIndex: 2, Score: domain.EasyScore},
		{ID: 14, Text: "Who painted the Mona Lisa?", Options: []string{"Pablo Picasso", "Vincent van Gogh", "Leonardo da Vinci", "Michelangelo"}, CorrectIndex: 2, Score: domain.MediumScore},
		{ID: 15, Text: "What is the most abundant gas in Earth's atmosphere?", Options: []string{"Oxygen", "Carbon Dioxide", "Nitrogen", "Hydrogen"}, CorrectIndex: 2, Score: domain.HardScore},
		{ID: 16, Text: "In React, what hook is used to manage component state?", Options: []string{"useEffect", "useState", "useContext", "useReducer"}, CorrectIndex: 1, Score: domain.MediumScore},
		{ID: 17, Text: "What is the currency of Japan?", Options: []string{"Yuan", "Won", "Yen", "Dong"}, CorrectIndex: 2, Score: domain.EasyScore},
		{ID: 18, Text: "Which CSS property is used to change text color?", Options: []string{"font-color", "text-color", "color", "background-color"}, CorrectIndex: 2, Score: domain.MediumScore},
		{ID: 19, Text: "What is the tallest mountain in the world?", Options: []string{"K2", "Mount Everest", "Kangchenjunga", "Lhotse"}, CorrectIndex: 1, Score: domain.HardScore},
		{ID: 20, Text: "Which database query language is most commonly used?", Options: []string{"NoSQL", "SQL", "GraphQL", "MongoDB"}, CorrectIndex: 1, Score: domain.HardScore},
	}
}
