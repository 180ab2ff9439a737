package openai

// defaultJudgeSystemPrompt is used when a caller passes no system instruction.
const defaultJudgeSystemPrompt = "Answer only 'yes' or 'no'."

// judgeMaxTokens bounds the answer; a yes/no reply needs a single token.
const judgeMaxTokens = 10
