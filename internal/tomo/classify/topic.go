package classify

import (
	"strings"
	"unicode/utf8"
)

// Topic is a conversational topic tag used to pick a canned fallback
// question in talk mode.
type Topic string

const (
	TopicGreet            Topic = "greet"
	TopicWho              Topic = "who"
	TopicAskMe            Topic = "ask_me"
	TopicAskClarify       Topic = "ask_clarify"
	TopicComplainNoAnswer Topic = "complain_no_answer"
	TopicTired            Topic = "tired"
	TopicRelations        Topic = "relations"
	TopicWork             Topic = "work"
	TopicHealth           Topic = "health"
	TopicShort            Topic = "short"
	TopicGeneric          Topic = "generic"
)

// shortMaxRunes is the length threshold (in runes, not bytes; Cyrillic is
// two bytes per letter in UTF-8) under which an otherwise unmatched message
// classifies as "short".
const shortMaxRunes = 12

// topicRule is one step of the classification cascade.
type topicRule struct {
	topic   Topic
	markers []string
}

// topicCascade is evaluated in order; the first matching rule wins.  The
// order is part of the contract: a greeting that also mentions being tired
// must classify as greet, so greet sits above tired, and the specific
// complaint rules sit above the broad life-domain ones.
var topicCascade = []topicRule{
	{TopicGreet, []string{
		"привет", "здравствуй", "добрый день", "добрый вечер",
		"доброе утро", "добрая ночь", "хай",
	}},
	{TopicWho, []string{
		"кто ты", "ты кто", "ты бот", "ты робот", "что ты такое",
	}},
	{TopicAskMe, []string{
		"как ты", "как дела", "как сам", "что делаешь", "чем занимаешься",
	}},
	{TopicAskClarify, []string{
		"что ты имеешь в виду", "не понял", "не поняла", "поясни",
		"в смысле", "о чем ты",
	}},
	{TopicComplainNoAnswer, []string{
		"ты не отвечаешь", "не ответил", "молчишь", "игнорируешь",
		"почему молчал",
	}},
	{TopicTired, []string{
		"устал", "устала", "нет сил", "выгорел", "выгорела", "вымотан",
	}},
	{TopicRelations, []string{
		"отношения", "девушка", "парень", "жена", "муж", "поссорил",
		"расстал", "одиноко",
	}},
	{TopicWork, []string{
		"работ", "начальник", "коллег", "проект", "дедлайн", "уволь",
	}},
	{TopicHealth, []string{
		"болит", "болею", "здоровье", "врач", "бессонниц", "не спал",
		"не спала",
	}},
}

// DetectTopic maps text to a topic tag via the ordered keyword cascade.
// Unmatched text shorter than shortMaxRunes classifies as short; anything
// else is generic.
func DetectTopic(text string) Topic {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range topicCascade {
		if containsAny(low, rule.markers) {
			return rule.topic
		}
	}
	if utf8.RuneCountInString(low) < shortMaxRunes {
		return TopicShort
	}
	return TopicGeneric
}
