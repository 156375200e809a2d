package dialog

// Main menu labels. Typing one of them is the same as pressing it.
const (
	LabelAddMeeting    = "➕ Добавить встречу"
	LabelBrowse        = "📋 Просмотреть встречи"
	LabelManageUsers   = "👥 Управление пользователями"
	LabelStatistics    = "📊 Статистика"
	CommandStart       = "start"
	CommandCancel      = "cancel"
	CommandHelp        = "help"
	summaryPreviewSize = 200
	deletePreviewSize  = 100
	listLabelLimit     = 35
)

const (
	textAccessDenied = "⛔ Доступ запрещен.\n\nВы не зарегистрированы в системе. " +
		"Обратитесь к администратору для получения доступа."
	textFailure         = "❌ Произошла ошибка. Пожалуйста, попробуйте позже."
	textSaveFailure     = "❌ Произошла ошибка при сохранении встречи.\nПожалуйста, попробуйте снова."
	textMenuHint        = "Используйте кнопки меню или команды для взаимодействия с ботом."
	textUseButtons      = "Выберите вариант кнопкой в сообщении выше или отправьте /cancel."
	textCancelled       = "Действие отменено."
	textBusy            = "⚠️ Сначала завершите текущее действие или отправьте /cancel."
	textNotFound        = "❌ Встреча не найдена."
	textNoData          = "Нет данных для отображения. Откройте список встреч заново."
	textPageOutOfRange  = "Такой страницы нет."
	textNoRightsEdit    = "⛔ У вас нет прав для редактирования встреч."
	textNoRightsDelete  = "⛔ У вас нет прав для удаления встреч."
	textNoRightsUsers   = "⛔ У вас нет прав для управления пользователями."
	textNoRightsStats   = "⛔ У вас нет прав для просмотра статистики."
	textNoRightsGeneric = "⛔ У вас нет прав для этого действия."

	textPickComplex      = "🏛️ <b>Выберите комплекс:</b>"
	textPickOrganization = "🏢 <b>Выберите организацию:</b>"
	textPickDate         = "📅 <b>Выберите дату встречи:</b>"
	textPickStatus       = "📊 <b>Выберите статус встречи:</b>"
	textAskDuration      = "⏱️ <b>Введите длительность встречи в минутах:</b>\n(только цифры, например: 60)"
	textAskSummary       = "📝 <b>Введите краткое содержание встречи:</b>\n(опишите ключевые моменты, договоренности)"
	textDateCancelled    = "❌ Выбор даты отменен."
	textWrongComplex     = "❌ Организация не относится к выбранному комплексу."
	textUnknownComplex   = "❌ Такого комплекса нет."
	textUnknownOrg       = "❌ Такой организации нет."
	textAddRejected      = "❌ Создание встречи отменено.\n\n" +
		"Вы можете начать заново, выбрав «" + LabelAddMeeting + "» в главном меню."

	textEditDone           = "Продолжайте редактирование или вернитесь к просмотру встречи."
	textEditDateCancelled  = "❌ Редактирование даты отменено."
	textEditHeldNoDuration = "Для состоявшейся встречи укажите длительность."

	textAdminMenu     = "👥 <b>Управление пользователями</b>\n\nВыберите действие:"
	textNoUsers       = "👥 Пользователей пока нет."
	textAskNewUserID  = "➕ <b>Добавление нового пользователя</b>\n\nВведите Telegram ID пользователя (только цифры):"
	textAskNewName    = "Введите имя пользователя (как отображать в системе):"
	textAskDeleteID   = "❌ <b>Удаление пользователя</b>\n\nВведите Telegram ID пользователя для удаления (только цифры):"
	textSelfDelete    = "❌ Вы не можете удалить сами себя.\n\nВведите Telegram ID другого пользователя:"
	textBackToMain    = "Возврат в главное меню."
	textNoMeetings    = "📭 Встреч пока нет.\nВы можете добавить первую встречу."
	textPickYear      = "📅 <b>Выберите год для просмотра встреч:</b>"
	textPickMeeting   = "<b>Выберите встречу для просмотра деталей:</b>"
	textNoStatistics  = "📊 Статистика пока недоступна.\nДобавьте несколько встреч для анализа."
	textConfirmDelete = "❓ <b>Вы уверены, что хотите удалить эту встречу?</b>"
)

const textHelp = "ℹ️ <b>Справка</b>\n\n" +
	"/start — главное меню\n" +
	"/cancel — отменить текущее действие\n" +
	"/help — эта справка\n\n" +
	"Встреча добавляется по шагам: комплекс, организация, дата, статус, " +
	"длительность (для состоявшихся встреч) и краткое содержание."

// Button labels.
const (
	btnBackToComplexes = "⬅️ Назад к комплексам"
	btnToday           = "Сегодня"
	btnPrevMonth       = "⬅️"
	btnNextMonth       = "➡️"
	btnCancel          = "❌ Отменить"
	btnConfirmYes      = "✅ Да, сохранить"
	btnConfirmNo       = "❌ Нет, отменить"
	btnBackToYears     = "⬅️ Назад к годам"
	btnBackToMonths    = "⬅️ Назад к месяцам"
	btnBackToList      = "⬅️ Назад к списку"
	btnPrevPage        = "⬅️ Назад"
	btnNextPage        = "Вперед ➡️"
	btnEdit            = "✏️ Редактировать"
	btnDelete          = "🗑️ Удалить"
	btnEditDate        = "📅 Дата"
	btnEditOrg         = "🏢 Организация"
	btnEditStatus      = "📊 Статус"
	btnEditDuration    = "⏱️ Длительность"
	btnEditSummary     = "📝 Содержание"
	btnCancelEdit      = "❌ Отменить редактирование"
	btnDeleteYes       = "✅ Да, удалить"
	btnDeleteNo        = "❌ Нет, отменить"
	btnListUsers       = "👥 Список пользователей"
	btnAddUser         = "➕ Добавить пользователя"
	btnDeleteUser      = "❌ Удалить пользователя"
	btnToMainMenu      = "⬅️ В главное меню"
)
