package words

import (
	"fmt"
	"strings"
)

var translations = map[string]string{
	// nouns
	"apple": "яблоко", "book": "книга", "car": "машина", "house": "дом", "dog": "собака",
	"cat": "кошка", "table": "стол", "chair": "стул", "phone": "телефон", "computer": "компьютер",
	"water": "вода", "food": "еда", "friend": "друг", "family": "семья", "school": "школа",
	"time": "время", "day": "день", "night": "ночь", "year": "год",

	// verbs
	"run": "бежать", "walk": "ходить", "talk": "говорить", "eat": "есть", "drink": "пить",
	"sleep": "спать", "work": "работать", "study": "учиться", "read": "читать", "write": "писать",
	"listen": "слушать", "watch": "смотреть", "play": "играть", "help": "помогать", "think": "думать",
	"know": "знать", "understand": "понимать", "feel": "чувствовать", "see": "видеть", "hear": "слышать",

	// adjectives
	"good": "хороший", "bad": "плохой", "big": "большой", "small": "маленький", "happy": "счастливый",
	"sad": "грустный", "beautiful": "красивый", "ugly": "некрасивый", "fast": "быстрый", "slow": "медленный",
	"hot": "горячий", "cold": "холодный", "new": "новый", "old": "старый", "easy": "легкий",
	"difficult": "трудный", "expensive": "дорогой", "cheap": "дешевый", "interesting": "интересный", "boring": "скучный",
}

// Translate returns the Russian translation of an English word, or a placeholder
// naming the word when it is unknown
func Translate(word string) string {
	if t, ok := translations[normalize(word)]; ok {
		return t
	}
	return fmt.Sprintf("%s (перевод отсутствует)", strings.TrimSpace(word))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
