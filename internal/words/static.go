package words

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// pair is a built-in translation pair
type pair struct {
	source string
	target string
}

// fallbackWords top up a test when the remote source yields nothing
var fallbackWords = map[models.Level][]pair{
	models.Beginner: {
		{"яблоко", "apple"}, {"книга", "book"}, {"машина", "car"}, {"дом", "house"},
		{"собака", "dog"}, {"кошка", "cat"}, {"стол", "table"}, {"стул", "chair"},
		{"телефон", "phone"}, {"компьютер", "computer"}, {"вода", "water"}, {"еда", "food"},
		{"друг", "friend"}, {"семья", "family"}, {"школа", "school"},
	},
	models.Intermediate: {
		{"бежать", "run"}, {"ходить", "walk"}, {"говорить", "talk"}, {"есть", "eat"},
		{"пить", "drink"}, {"спать", "sleep"}, {"работать", "work"}, {"учиться", "study"},
		{"читать", "read"}, {"писать", "write"}, {"слушать", "listen"}, {"смотреть", "watch"},
		{"играть", "play"}, {"помогать", "help"}, {"думать", "think"},
	},
	models.Advanced: {
		{"хороший", "good"}, {"плохой", "bad"}, {"большой", "big"}, {"маленький", "small"},
		{"счастливый", "happy"}, {"грустный", "sad"}, {"красивый", "beautiful"}, {"некрасивый", "ugly"},
		{"быстрый", "fast"}, {"медленный", "slow"}, {"горячий", "hot"}, {"холодный", "cold"},
		{"новый", "new"}, {"старый", "old"}, {"легкий", "easy"},
	},
}

// seedWords are inserted on first run
var seedWords = map[models.Level][]pair{
	models.Beginner: {
		{"Привет", "Hello"}, {"Пока", "Goodbye"}, {"Да", "Yes"}, {"Нет", "No"},
		{"Спасибо", "Thank you"}, {"Пожалуйста", "Please"}, {"Извините", "Sorry"}, {"Дом", "House"},
		{"Кошка", "Cat"}, {"Собака", "Dog"}, {"Вода", "Water"}, {"Еда", "Food"},
		{"Хорошо", "Good"}, {"Плохо", "Bad"}, {"Большой", "Big"}, {"Маленький", "Small"},
		{"Книга", "Book"}, {"Телефон", "Phone"}, {"Время", "Time"}, {"День", "Day"},
	},
	models.Intermediate: {
		{"Образование", "Education"}, {"Опыт", "Experience"}, {"Развитие", "Development"}, {"Технология", "Technology"},
		{"Путешествие", "Travel"}, {"Встреча", "Meeting"}, {"Проект", "Project"}, {"Важный", "Important"},
		{"Решение", "Decision"}, {"Возможность", "Opportunity"}, {"Успех", "Success"}, {"Разный", "Different"},
		{"Сложный", "Difficult"}, {"Простой", "Simple"}, {"Интересный", "Interesting"}, {"Будущее", "Future"},
		{"Прошлое", "Past"}, {"Настоящее", "Present"}, {"Цель", "Goal"}, {"Достижение", "Achievement"},
	},
	models.Advanced: {
		{"Осведомленность", "Awareness"}, {"Благоприятствовать", "Facilitate"}, {"Воплощение", "Embodiment"}, {"Противоречие", "Contradiction"},
		{"Последовательность", "Consistency"}, {"Обстоятельства", "Circumstances"}, {"Взаимодействие", "Interaction"}, {"Непредвиденный", "Unforeseen"},
		{"Двусмысленность", "Ambiguity"}, {"Предрасположенность", "Predisposition"}, {"Интерпретация", "Interpretation"}, {"Универсальный", "Universal"},
		{"Философия", "Philosophy"}, {"Многогранный", "Multifaceted"}, {"Концептуальный", "Conceptual"}, {"Существенный", "Substantial"},
		{"Недопонимание", "Misunderstanding"}, {"Олицетворение", "Personification"}, {"Представление", "Representation"}, {"Преобразование", "Transformation"},
	},
}

func newWord(level models.Level, p pair) models.Word {
	return models.Word{
		ID:         uuid.NewString(),
		SourceText: p.source,
		TargetText: p.target,
		Level:      level,
	}
}

// fallback returns up to count random built-in words of the level whose target
// text is not in seen
func fallback(level models.Level, count int, seen map[string]bool) []models.Word {
	if count <= 0 {
		return nil
	}

	candidates := make([]pair, 0, len(fallbackWords[level]))
	for _, p := range fallbackWords[level] {
		if !seen[normalize(p.target)] {
			candidates = append(candidates, p)
		}
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if count > len(candidates) {
		count = len(candidates)
	}
	words := make([]models.Word, 0, count)
	for _, p := range candidates[:count] {
		words = append(words, newWord(level, p))
	}
	return words
}
