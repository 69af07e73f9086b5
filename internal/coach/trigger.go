package coach

// SummarizeEvery is the cadence, in user turns, at which a new conversation
// summary is produced.
const SummarizeEvery = 4

// RecentWindow is how many recent messages (user and assistant combined) are
// sent as short-term context with every reply.
const RecentWindow = 4

// MaxHistoryMessages bounds how much history is serialized into a single
// summarization or analysis request.
const MaxHistoryMessages = 200

// ShouldSummarize reports whether a summary must be produced after a turn
// that brings the user-turn count to userTurns. Fires on turns 4, 8, 12, ...
// using the post-increment count; zero never triggers.
func ShouldSummarize(userTurns int64) bool {
	return userTurns > 0 && userTurns%SummarizeEvery == 0
}
