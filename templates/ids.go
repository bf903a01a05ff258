package templates

// Element ids the pages expose. Scripts, styles and tests address the page through them, so they must not change.
const (
	IDAuthArea         = "auth-area"
	IDAuthMessage      = "auth-message"
	IDMembershipStatus = "membership-status"
	IDUpgradeButton    = "upgrade-btn"
	IDLogoutButton     = "logout-btn"
	IDLoginForm        = "login-form"
	IDRegisterForm     = "register-form"

	IDSearchForm  = "search-form"
	IDSearchInput = "search-input"
	IDNovelList   = "novel-list"
	IDEmptyList   = "no-results"

	IDNovelTitle       = "novel-title"
	IDNovelAuthor      = "novel-author"
	IDNovelDescription = "novel-description"
	IDChapterList      = "chapter-list"
	IDReadProgress     = "read-progress"
	IDContinueReading  = "continue-reading"

	IDChapterTitle   = "chapter-title"
	IDChapterContent = "chapter-content"
	IDUpgradePrompt  = "upgrade-prompt"
	IDMarkRead       = "mark-read-btn"
	IDPrevChapter    = "prev-chapter"
	IDNextChapter    = "next-chapter"

	IDComments     = "comments"
	IDCommentList  = "comment-list"
	IDNoComments   = "no-comments"
	IDCommentForm  = "comment-form"
	IDCommentInput = "comment-input"
)
