package localization

import "OrtPrepBot/internal/models/domain"

// Key names a user-facing message. All conversational text is resolved
// through the table; handlers never hard-code user-facing strings.
type Key string

const (
	Greeting             Key = "greeting"               // %s user first name
	ChooseMethod         Key = "choose_method"
	MethodPercentage     Key = "method_percentage"
	MethodCorrectAnswers Key = "method_correct_answers"
	EnterPercentages     Key = "enter_percentages"
	EnterCorrectAnswers  Key = "enter_correct_answers"
	NeedThreeNumbers     Key = "need_three_numbers"
	PercentOutOfRange    Key = "percent_out_of_range"
	CountOutOfRange      Key = "count_out_of_range"
	ResultPercentage     Key = "result_percentage" // %d total, math, reading, grammar
	ResultCorrect        Key = "result_correct"    // %d total, math, reading, grammar

	ProfileNotFound        Key = "profile_not_found"
	ProfileTemplate        Key = "profile_template" // %s name, %d score, %s rank, %d total
	UpdateProfile          Key = "update_profile"
	Rating                 Key = "rating"
	Yes                    Key = "yes"
	No                     Key = "no"
	Menu                   Key = "menu"
	EnterFullName          Key = "enter_full_name"
	EnterScore             Key = "enter_score"
	InvalidScore           Key = "invalid_score"
	ProfileSubmitted       Key = "profile_submitted"
	ProfileRejected        Key = "profile_creation_rejected"
	ErrorOccurred          Key = "error_occurred"
	Approve                Key = "approve"
	Reject                 Key = "reject"
	NewProfileAdmin        Key = "new_profile_admin" // %s user, %s name, %d score
	ProfileApprovedByAdmin Key = "profile_approved_by_admin"
	ProfileRejectedByAdmin Key = "profile_rejected_by_admin"
	RankingsHeader         Key = "rankings_header"
	RankingLine            Key = "ranking_line"       // %d pos, %s name, %d score
	UserRankingLine        Key = "user_ranking_line"  // %d rank, %s name, %d score
	TotalParticipants      Key = "total_participants" // %d total
)

// Table resolves message keys per language, falling back to the default
// language for unknown locales.
type Table struct {
	defaultLang string
	messages    map[Key]map[string]string
}

// New builds the built-in two-locale table with Russian as the default.
func New() *Table {
	return &Table{
		defaultLang: domain.LangRU,
		messages:    messages,
	}
}

// Resolve returns the message for key in lang. Unknown languages fall back to
// the default language; unknown keys resolve to a visible placeholder rather
// than an empty string.
func (t *Table) Resolve(key Key, lang string) string {
	byLang, ok := t.messages[key]
	if !ok {
		return "message not found: " + string(key)
	}
	if msg, ok := byLang[lang]; ok {
		return msg
	}
	return byLang[t.defaultLang]
}

var messages = map[Key]map[string]string{
	Greeting: {
		domain.LangRU: "👋 Привет, %s!\n\nЯ бот для подготовки к ОРТ: считаю баллы, веду рейтинг и рассылаю задачи.",
		domain.LangKG: "👋 Салам, %s!\n\nМен ЖРТга даярдануу ботумун: балл эсептейм, рейтинг жүргүзөм жана тапшырмаларды жөнөтөм.",
	},
	ChooseMethod: {
		domain.LangRU: "Выберите способ подсчета баллов:",
		domain.LangKG: "Баллдарды эсептөө ыкмасын тандаңыз:",
	},
	MethodPercentage: {
		domain.LangRU: "По процентам",
		domain.LangKG: "Пайыз менен",
	},
	MethodCorrectAnswers: {
		domain.LangRU: "По количеству правильных ответов",
		domain.LangKG: "Туура жооптордун саны менен",
	},
	EnterPercentages: {
		domain.LangRU: "Введите проценты правильно отвеченных по разделам в формате:\nМатематика, Чтение, Грамматика (максимум 100% каждый)",
		domain.LangKG: "Бөлүмдөр боюнча туура жооптордун пайызын киргизиңиз:\nМатематика, Окуу, Грамматика (ар бири максимум 100%)",
	},
	EnterCorrectAnswers: {
		domain.LangRU: "Введите количество правильных ответов по разделам в формате:\nМатематика, Чтение, Грамматика",
		domain.LangKG: "Бөлүмдөр боюнча туура жооптордун санын киргизиңиз:\nМатематика, Окуу, Грамматика",
	},
	NeedThreeNumbers: {
		domain.LangRU: "Пожалуйста, введите три числа (можно через пробел или запятую)",
		domain.LangKG: "Үч санды киргизиңиз (боштук же үтүр менен)",
	},
	PercentOutOfRange: {
		domain.LangRU: "Проценты должны быть от 0 до 100. Попробуйте снова",
		domain.LangKG: "Пайыздар 0дон 100гө чейин болушу керек. Кайра аракет кылыңыз",
	},
	CountOutOfRange: {
		domain.LangRU: "Превышен максимум ответов: мат≤60, чтение≤60, грам≤30. Попробуйте снова",
		domain.LangKG: "Жооптордун максималдуу саны ашып кетти: мат≤60, окуу≤60, грам≤30. Кайра аракет кылыңыз",
	},
	ResultPercentage: {
		domain.LangRU: "Ваш общий балл ОРТ по процентам: %d\nМатематика: %d\nЧтение: %d\nГрамматика: %d",
		domain.LangKG: "Сиздин жалпы ЖРТ баллыңыз: %d\nМатематика: %d\nОкуу: %d\nГрамматика: %d",
	},
	ResultCorrect: {
		domain.LangRU: "Ваш общий балл ОРТ: %d\nМатематика: %d\nЧтение: %d\nГрамматика: %d",
		domain.LangKG: "Сиздин жалпы ЖРТ баллыңыз: %d\nМатематика: %d\nОкуу: %d\nГрамматика: %d",
	},
	ProfileNotFound: {
		domain.LangRU: "❌ Профиль не найден.\nХотите создать новый профиль?",
		domain.LangKG: "❌ Профиль табылган жок.\nЖаңы профиль түзгүңүз келеби?",
	},
	ProfileTemplate: {
		domain.LangRU: "📋 Ваш профиль:\n\n👤 ФИО: %s\n📊 Балл ОРТ: %d\n🏆 Место в рейтинге: %s/%d",
		domain.LangKG: "📋 Сиздин профилиңиз:\n\n👤 ФАА: %s\n📊 ЖРТ баллы: %d\n🏆 Рейтингдеги орун: %s/%d",
	},
	UpdateProfile: {
		domain.LangRU: "Обновить профиль",
		domain.LangKG: "Профилди жаңыртуу",
	},
	Rating: {
		domain.LangRU: "Рейтинг",
		domain.LangKG: "Рейтинг",
	},
	Yes: {
		domain.LangRU: "✅ Да",
		domain.LangKG: "✅ Ооба",
	},
	No: {
		domain.LangRU: "❌ Нет",
		domain.LangKG: "❌ Жок",
	},
	Menu: {
		domain.LangRU: "Главное меню",
		domain.LangKG: "Башкы меню",
	},
	EnterFullName: {
		domain.LangRU: "Введите ваше ФИО:",
		domain.LangKG: "ФААңызды жазыңыз:",
	},
	EnterScore: {
		domain.LangRU: "Введите ваш балл ОРТ (от 0 до 245):",
		domain.LangKG: "ЖРТ баллыңызды жазыңыз (0дон 245ге чейин):",
	},
	InvalidScore: {
		domain.LangRU: "❌ Неверный формат балла. Введите число от 0 до 245.",
		domain.LangKG: "❌ Туура эмес балл. 0дон 245ге чейинки санды жазыңыз.",
	},
	ProfileSubmitted: {
		domain.LangRU: "✅ Ваш профиль отправлен на проверку.",
		domain.LangKG: "✅ Сиздин профилиңиз текшерүүгө жөнөтүлдү.",
	},
	ProfileRejected: {
		domain.LangRU: "❌ Создание профиля отменено.",
		domain.LangKG: "❌ Профиль түзүү жокко чыгарылды.",
	},
	ErrorOccurred: {
		domain.LangRU: "❌ Произошла ошибка. Попробуйте позже.",
		domain.LangKG: "❌ Ката кетти. Кийинчерээк кайталаңыз.",
	},
	Approve: {
		domain.LangRU: "✅ Подтвердить",
		domain.LangKG: "✅ Тастыктоо",
	},
	Reject: {
		domain.LangRU: "❌ Отклонить",
		domain.LangKG: "❌ Четке кагуу",
	},
	NewProfileAdmin: {
		domain.LangRU: "📝 Новый профиль от %s:\n👤 ФИО: %s\n📊 Балл ОРТ: %d",
		domain.LangKG: "📝 Жаңы профиль %s:\n👤 ФАА: %s\n📊 ЖРТ баллы: %d",
	},
	ProfileApprovedByAdmin: {
		domain.LangRU: "✅ Ваш профиль подтверждён!",
		domain.LangKG: "✅ Сиздин профилиңиз тастыкталды!",
	},
	ProfileRejectedByAdmin: {
		domain.LangRU: "❌ Ваш профиль отклонён.",
		domain.LangKG: "❌ Сиздин профилиңиз четке кагылды.",
	},
	RankingsHeader: {
		domain.LangRU: "🏆 Рейтинг по баллам ОРТ:",
		domain.LangKG: "🏆 ЖРТ баллдары боюнча рейтинг:",
	},
	RankingLine: {
		domain.LangRU: "%d. %s - %d баллов\n",
		domain.LangKG: "%d. %s - %d балл\n",
	},
	UserRankingLine: {
		domain.LangRU: "\n... Ваше место: %d. %s - %d баллов\n",
		domain.LangKG: "\n... Сиздин орунуңуз: %d. %s - %d балл\n",
	},
	TotalParticipants: {
		domain.LangRU: "\n\nВсего участников: %d",
		domain.LangKG: "\n\nБардык катышуучулар: %d",
	},
}
