package telegram

const (
	msgWelcome = "👋 Welcome to Kanbot!\n\n" +
		"To link your account, send: /start {code}\n\n" +
		"Get your code from the Settings page in the app."

	msgLinked = "✅ Success! Your Telegram account has been linked to Kanbot.\n\n" +
		"You'll now receive notifications for:\n" +
		"• Task assignments\n" +
		"• Due date reminders\n" +
		"• New comments on your tasks\n" +
		"• Task completion updates"

	msgInvalidCode = "❌ Invalid or expired link code. Please try again from the Kanbot app."

	msgNotLinked = "❌ Your Telegram account is not linked yet.\n\n" +
		"Link it first with /start {code} using the code from the app settings."

	msgPromptTitle       = "📝 Let's create a task! What's the title?"
	msgInvalidTitle      = "❌ The title must be between 1 and 200 characters. Please try again."
	msgPromptDescription = "📄 Got it. Now send the description."
	msgInvalidDesc       = "❌ The description must be between 1 and 1000 characters. Please try again."
	msgPromptDueDate     = "📅 Finally, when is it due? Use the format: DD/MM/YYYY hh:mm am|pm\n\n" +
		"Example: 15/02/2026 03:30 pm"
	msgInvalidDueDate = "❌ I couldn't read that date. Use: DD/MM/YYYY hh:mm am|pm\n\n" +
		"Example: 15/02/2026 03:30 pm"

	msgNoBoard = "❌ You don't own a board yet. Create one in the app first."

	msgNoColumn = "❌ Your board has no columns. Add a column in the app first."

	msgCreateFailed = "❌ Something went wrong creating the task. Please try /add again."
)
