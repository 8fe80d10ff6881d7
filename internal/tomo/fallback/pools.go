package fallback

import "github.com/bdobrica/Tomo/internal/tomo/classify"

// Pools holds every fallback line pool the selector can draw from.
// Pools are small fixed lists; the selector never mutates them.
type Pools struct {
	// Support maps a sentiment label to its pool of supportive lines.
	Support map[classify.Sentiment][]string

	// Motivation maps a time-of-day bucket to its pool of motivational
	// lines.  An unrecognized bucket falls back to the day pool.
	Motivation map[Bucket][]string

	// Topics maps a topic tag to its pool of canned talk questions.
	// The generic tag has no pool; generic talk fallback reflects the
	// user's own text instead (see Reflect).
	Topics map[classify.Topic][]string
}

// Defaults returns the built-in line pools.
func Defaults() *Pools {
	return &Pools{
		Support: map[classify.Sentiment][]string{
			classify.SentimentNegative: {
				"Твоим чувствам есть место. Ты не один.",
				"Ты сделал достаточно на сегодня. Можно позволить себе выдохнуть.",
				"Не обязательно тащить всё сразу. Шаг за шагом — нормально.",
			},
			classify.SentimentNeutral: {
				"Я рядом текстом, но по-настоящему. Береги себя.",
				"Твоя усталость слышна. Дай себе немного тишины.",
				"Спасибо, что делишься. Это уже забота о себе.",
			},
			classify.SentimentPositive: {
				"Звучит тепло. Сохраним это ощущение.",
				"Отлично, пусть это станет опорой на завтра.",
				"Классный штрих к дню. Заметим и пойдем дальше.",
			},
		},
		Motivation: map[Bucket][]string{
			BucketMorning: {
				"Один простой шаг сейчас задаст тон дню.",
				"Не ищи идеальных условий — начни с малого.",
			},
			BucketDay: {
				"Сделай короткое действие за 5 минут — оно двинет остальное.",
				"Фокус на одном. Остальное подождёт.",
			},
			BucketEvening: {
				"Подведи маленький итог и выбери один шаг на завтра.",
				"Сегодня было достаточно. Завтра — продолжишь с маленького шага.",
			},
			BucketNight: {
				"Сохрани одну мысль на завтра и дай себе отдохнуть.",
				"Лучшее действие сейчас — забота о себе и сон.",
			},
		},
		Topics: map[classify.Topic][]string{
			classify.TopicGreet: {
				"Привет. Как прошёл твой день?",
				"Привет! Рад тебя слышать. Что у тебя сейчас на душе?",
				"Здравствуй. О чём хочется поговорить?",
			},
			classify.TopicWho: {
				"Я твой вечерний собеседник — здесь, чтобы слушать. А что привело тебя сегодня?",
				"Я собеседник для вечерних разговоров. Расскажешь, как прошёл день?",
			},
			classify.TopicAskMe: {
				"У меня всё ровно, спасибо. А вот ты — как твой день на самом деле?",
				"Со мной всё хорошо. Мне интереснее, как дела у тебя?",
			},
			classify.TopicAskClarify: {
				"Я имел в виду твоё последнее сообщение. Расскажешь чуть подробнее?",
				"Давай попробую иначе: что для тебя сейчас самое важное в этом?",
			},
			classify.TopicComplainNoAnswer: {
				"Прости, если показалось, что я пропал. Я здесь. О чём ты хотел поговорить?",
				"Я на месте и слушаю. Повторишь, что хотел сказать?",
			},
			classify.TopicTired: {
				"Слышу усталость. Что сегодня забрало больше всего сил?",
				"Похоже, день был непростой. Что помогло бы тебе сейчас выдохнуть?",
			},
			classify.TopicRelations: {
				"Отношения — это непросто. Что в этой истории задевает тебя сильнее всего?",
				"Расскажи чуть больше: что бы тебе хотелось, чтобы было иначе?",
			},
			classify.TopicWork: {
				"Работа умеет выматывать. Что из рабочего сейчас давит больше всего?",
				"Если выделить одну рабочую вещь, которая тревожит — какая она?",
			},
			classify.TopicHealth: {
				"Самочувствие — это важно. Как ты заботишься о себе сейчас?",
				"Звучит неприятно. Что обычно помогает тебе в такие дни?",
			},
			classify.TopicShort: {
				"Расскажи чуть подробнее — я слушаю.",
				"Понимаю. А что за этим стоит?",
				"Я рядом. Продолжишь мысль?",
			},
		},
	}
}
