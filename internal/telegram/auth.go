package telegram

// isOwner reports whether userID is the configured bot owner.
func (ortBot *Bot) isOwner(userID int64) bool {
	return userID == ortBot.cfg.BotConfig.OwnerID
}

// isAdmin reports whether userID may run moderation and broadcast flows.
// The owner is always an admin.
func (ortBot *Bot) isAdmin(userID int64) bool {
	if ortBot.isOwner(userID) {
		return true
	}
	for _, id := range ortBot.cfg.BotConfig.Admins {
		if id == userID {
			return true
		}
	}
	return false
}
