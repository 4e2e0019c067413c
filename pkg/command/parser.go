package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fintalk/fintalk/pkg/budget"
	log "github.com/sirupsen/logrus"
)

const unknownReply = `I didn't understand that. Try saying "Spent 250 on lunch" or "Invested 1000 in stocks" to log an expense, or "Show budget" to view your budget. Say "Help" for more commands.`

var (
	numberRe        = regexp.MustCompile(`\d+`)
	saveShorthandRe = regexp.MustCompile(`(?:^|\s)(?:set|change|update|make)?\s*save\s+(\d+)`)

	savingsGoalRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:set|change|update)\s+(?:(?:my|the)\s+)?savings goal\s*(?:to|as|is)?\s*(\d+)`),
		regexp.MustCompile(`savings goal\s+(?:is|should be|to)\s+(\d+)`),
		regexp.MustCompile(`make\s+(?:(?:my|the)\s+)?savings goal\s*(?:to|as|is)?\s*(\d+)`),
		regexp.MustCompile(`savings goal.*?(\d+)`),
	}

	totalBudgetRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:change|set|update)\s+(?:(?:monthly|total)\s+)?budget\s+(?:to|as)\s+(\d+)`),
		regexp.MustCompile(`(?:monthly|total)\s+budget\s+(?:is|should be|to)\s+(\d+)`),
		regexp.MustCompile(`(?:set|make)\s+(?:(?:my|the)\s+)?(?:(?:monthly|total)\s+)?budget\s*(?:to|as|is)?\s*(\d+)`),
	}

	categoryLimitRe = regexp.MustCompile(`set (food|transport|entertainment|shopping|health|investment) (?:budget|limit)\s*(?:to|as)?\s*(\d+)`)
	categorySpentRe = regexp.MustCompile(`how much (?:have i|did i) spent (?:on|for) (food|transport|entertainment|shopping|health|investment)`)

	expenseActionWords = []string{"spend", "spent", "pay", "paid", "buy", "bought", "invest", "invested", "use", "used", "cost", "purchase", "purchased"}
	budgetKeywords     = []string{"budget", "limit", "goal", "total", "monthly"}

	// categoryKeywords is tested in order; the first matching group wins
	// and anything unmatched defaults to Shopping.
	categoryKeywords = []struct {
		category budget.Category
		words    []string
	}{
		{budget.CategoryInvestment, []string{"invest", "stock", "mutual fund", "sip", "bond", "crypto", "deposit", "saving", "fd"}},
		{budget.CategoryFood, []string{"lunch", "food", "dinner", "breakfast", "coffee", "restaurant", "groceries", "snack", "candy", "meal", "eat"}},
		{budget.CategoryTransport, []string{"uber", "cab", "transport", "metro", "bus", "taxi", "ride", "fuel", "gas"}},
		{budget.CategoryEntertainment, []string{"movie", "entertainment", "game", "concert", "music", "streaming"}},
		{budget.CategoryHealth, []string{"medicine", "doctor", "health", "gym", "hospital", "pharmacy"}},
		{budget.CategoryShopping, []string{"shopping", "buy", "purchase", "store", "mall", "cloth", "shoe"}},
	}

	navigationScreens = []struct {
		screen  string
		phrases []string
	}{
		{"dashboard", []string{"show dashboard", "open dashboard", "go to dashboard"}},
		{"expenses", []string{"show expenses", "open expenses", "go to expenses", "view expenses"}},
		{"settings", []string{"show settings", "open settings", "go to settings"}},
		{"chat", []string{"show chat", "open chat", "go to chat", "back to chat"}},
	}
)

// matcher inspects a lowercased utterance and either claims it or passes.
type matcher func(text string) (Command, bool)

// Parser converts free text into a typed Command. Matching is an ordered
// cascade, first match wins: intent classes overlap lexically ("budget"
// appears in limit-setting and info phrases alike), so the order below is
// part of the contract and must not be rearranged.
type Parser struct {
	matchers []matcher
}

func NewParser() *Parser {
	p := &Parser{}
	p.matchers = []matcher{
		matchNavigation,
		matchTotalSpentQuery,
		matchShowBudgetQuery,
		matchRemainingQuery,
		matchCurrency,
		matchSaveShorthand,
		matchSavingsGoal,
		matchTotalBudget,
		matchCategoryLimit,
		matchListExpenses,
		matchCategorySpent,
		matchExpense,
		matchHelp,
	}
	return p
}

// Parse is pure and deterministic: the same input always yields the same
// Command, so voice transcripts and typed text share one code path.
func (p *Parser) Parse(text string) Command {
	lower := strings.ToLower(strings.TrimSpace(text))
	log.Debugf("parsing command: %q", lower)

	for _, match := range p.matchers {
		if cmd, ok := match(lower); ok {
			if cmd.Type == TypeLogExpense {
				// Keep the original utterance as the expense description.
				cmd.Description = strings.TrimSpace(text)
			}
			return cmd
		}
	}
	return Command{Type: TypeUnknown, Message: unknownReply}
}

func matchNavigation(text string) (Command, bool) {
	for _, nav := range navigationScreens {
		for _, phrase := range nav.phrases {
			if strings.Contains(text, phrase) {
				return Command{Type: TypeNavigate, Screen: nav.screen}, true
			}
		}
	}
	return Command{}, false
}

func matchTotalSpentQuery(text string) (Command, bool) {
	if strings.Contains(text, "how much have i spent") ||
		strings.Contains(text, "what have i spent") ||
		strings.Contains(text, "tell me how much i spent") ||
		(strings.Contains(text, "total") && strings.Contains(text, "spent") && !strings.Contains(text, "budget")) {
		return Command{Type: TypeInfo, Query: QueryTotalSpent}, true
	}
	return Command{}, false
}

func matchShowBudgetQuery(text string) (Command, bool) {
	if strings.Contains(text, "show budget") ||
		strings.Contains(text, "what is my budget") ||
		strings.Contains(text, "tell me my budget") {
		return Command{Type: TypeInfo, Query: QueryShowBudget}, true
	}
	return Command{}, false
}

func matchRemainingQuery(text string) (Command, bool) {
	if strings.Contains(text, "how much is remaining") ||
		strings.Contains(text, "what is remaining") ||
		strings.Contains(text, "remaining budget") {
		return Command{Type: TypeInfo, Query: QueryRemaining}, true
	}
	return Command{}, false
}

func matchCurrency(text string) (Command, bool) {
	for _, code := range []string{"usd", "inr"} {
		if strings.Contains(text, "change currency to "+code) ||
			strings.Contains(text, "switch to "+code) ||
			strings.Contains(text, "use "+code) {
			return Command{Type: TypeSetCurrency, Currency: strings.ToUpper(code)}, true
		}
	}
	return Command{}, false
}

// matchSaveShorthand handles "save 5000" style goal setting. It is guarded
// against expense verbs so "spent 250 to save time" cannot become a goal.
func matchSaveShorthand(text string) (Command, bool) {
	if strings.Contains(text, "spent") || strings.Contains(text, "paid") || strings.Contains(text, "bought") {
		return Command{}, false
	}
	m := saveShorthandRe.FindStringSubmatch(text)
	if m == nil {
		return Command{}, false
	}
	goal, _ := strconv.ParseFloat(m[1], 64)
	return Command{Type: TypeSetSavingsGoal, Goal: goal}, true
}

func matchSavingsGoal(text string) (Command, bool) {
	if !strings.Contains(text, "savings") || !strings.Contains(text, "goal") {
		return Command{}, false
	}
	numbers := numberRe.FindAllString(text, -1)
	if len(numbers) == 0 {
		log.Debug("savings goal keywords found but no number present")
		return Command{}, false
	}
	for _, re := range savingsGoalRes {
		if m := re.FindStringSubmatch(text); m != nil {
			goal, _ := strconv.ParseFloat(m[1], 64)
			return Command{Type: TypeSetSavingsGoal, Goal: goal}, true
		}
	}
	// Deliberate tie-break: when no template matched, the last number in
	// the utterance is the most likely goal amount.
	goal, _ := strconv.ParseFloat(numbers[len(numbers)-1], 64)
	return Command{Type: TypeSetSavingsGoal, Goal: goal}, true
}

func matchTotalBudget(text string) (Command, bool) {
	if !strings.Contains(text, "budget") ||
		strings.Contains(text, "spent") ||
		strings.Contains(text, "savings") ||
		strings.Contains(text, "how much") {
		return Command{}, false
	}
	for _, re := range totalBudgetRes {
		if m := re.FindStringSubmatch(text); m != nil {
			total, _ := strconv.ParseFloat(m[1], 64)
			return Command{Type: TypeSetTotalBudget, Total: total}, true
		}
	}
	return Command{}, false
}

func matchCategoryLimit(text string) (Command, bool) {
	m := categoryLimitRe.FindStringSubmatch(text)
	if m == nil {
		return Command{}, false
	}
	limit, _ := strconv.ParseFloat(m[2], 64)
	return Command{
		Type:     TypeSetCategoryLimit,
		Category: budget.ParseCategory(m[1]),
		Limit:    limit,
	}, true
}

func matchListExpenses(text string) (Command, bool) {
	if strings.Contains(text, "list expenses") || strings.Contains(text, "my expenses") {
		return Command{Type: TypeInfo, Query: QueryListExpenses}, true
	}
	return Command{}, false
}

func matchCategorySpent(text string) (Command, bool) {
	m := categorySpentRe.FindStringSubmatch(text)
	if m == nil {
		return Command{}, false
	}
	return Command{Type: TypeInfo, Query: QueryCategorySpent, Category: budget.ParseCategory(m[1])}, true
}

// matchExpense claims an utterance only when it contains an expense action
// verb, no budget-domain keyword, and an extractable integer amount. An
// utterance that looks like an expense but has no number degrades to
// Unknown rather than erroring.
func matchExpense(text string) (Command, bool) {
	if !containsAny(text, expenseActionWords) || containsAny(text, budgetKeywords) {
		return Command{}, false
	}
	amountText := numberRe.FindString(text)
	if amountText == "" {
		return Command{}, false
	}
	amount, _ := strconv.ParseFloat(amountText, 64)

	category := budget.CategoryShopping
	for _, group := range categoryKeywords {
		if containsAny(text, group.words) {
			category = group.category
			break
		}
	}

	return Command{Type: TypeLogExpense, Amount: amount, Category: category}, true
}

func matchHelp(text string) (Command, bool) {
	if strings.Contains(text, "help") || strings.Contains(text, "what can you do") || strings.Contains(text, "commands") {
		return Command{Type: TypeInfo, Query: QueryHelp}, true
	}
	return Command{}, false
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
