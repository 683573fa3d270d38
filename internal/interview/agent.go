// Package interview collects the facts needed for an inheritance
// calculation through a guided dialogue. A state machine decides what to
// ask next and an LLM turns free-form answers into structured records.
package interview

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kazumasakawahara/inheritance-calculator/internal/config"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
	"github.com/kazumasakawahara/inheritance-calculator/internal/era"
	"github.com/kazumasakawahara/inheritance-calculator/internal/llm"
)

type State string

const (
	StateInit         State = "init"
	StateDecedent     State = "decedent_info"
	StateSpouse       State = "spouse_info"
	StateChildren     State = "children_info"
	StateParents      State = "parents_info"
	StateSiblings     State = "siblings_info"
	StateSpecialCases State = "special_cases"
	StateConfirmation State = "confirmation"
	StateCompleted    State = "completed"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Agent struct {
	client  llm.Client
	prompts config.InterviewPrompts

	state     State
	history   []Message
	collected map[string]bool

	decedentName string
	deathDate    *time.Time
	birthDate    *time.Time

	spouses   []*model.Person
	children  []*model.Person
	parents   []*model.Person
	siblings  []*model.Person
	renounced []*model.Person

	childrenTotal int
	specialStep   string
}

func NewAgent(client llm.Client, prompts config.InterviewPrompts) *Agent {
	if prompts.PersonExtraction == "" {
		prompts.PersonExtraction = defaultPersonExtractionPrompt
	}
	if prompts.YesNo == "" {
		prompts.YesNo = defaultYesNoPrompt
	}
	return &Agent{
		client:    client,
		prompts:   prompts,
		state:     StateInit,
		collected: make(map[string]bool),
	}
}

// Start moves the interview out of the init state and returns the opening
// question.
func (a *Agent) Start() string {
	a.state = StateDecedent
	msg := msgIntro + "\n\n" + msgDecedentName
	a.history = append(a.history, Message{Role: "assistant", Content: msg})
	return msg
}

// Process consumes one user answer and returns the next question. The
// returned error is reserved for context cancellation; malformed answers
// produce a retry message instead.
func (a *Agent) Process(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.history = append(a.history, Message{Role: "user", Content: input})

	var next string
	switch a.state {
	case StateDecedent:
		next = a.processDecedent(input)
	case StateSpouse:
		next = a.processSpouse(ctx, input)
	case StateChildren:
		next = a.processChildren(ctx, input)
	case StateParents:
		next = a.processParents(ctx, input)
	case StateSiblings:
		next = a.processSiblings(ctx, input)
	case StateSpecialCases:
		next = a.processSpecialCases(ctx, input)
	case StateConfirmation:
		next = a.processConfirmation(ctx, input)
	default:
		next = msgAlreadyDone
	}

	a.history = append(a.history, Message{Role: "assistant", Content: next})
	return next, nil
}

func (a *Agent) Completed() bool { return a.state == StateCompleted }

func (a *Agent) CurrentState() State { return a.state }

func (a *Agent) History() []Message { return a.history }

// Family assembles the collected answers into calculation input. It is
// only valid once the interview has completed.
func (a *Agent) Family() (*model.Family, error) {
	if a.state != StateCompleted {
		return nil, fmt.Errorf("interview not completed, state is %s", a.state)
	}
	decedent := &model.Person{
		ID:         uuid.New().String(),
		Name:       a.decedentName,
		IsDecedent: true,
		Alive:      false,
		DeathDate:  a.deathDate,
		BirthDate:  a.birthDate,
	}
	return &model.Family{
		Decedent:  decedent,
		Spouses:   a.spouses,
		Children:  a.children,
		Parents:   a.parents,
		Siblings:  a.siblings,
		Renounced: a.renounced,
	}, nil
}

func (a *Agent) processDecedent(input string) string {
	if !a.collected["decedent_name"] {
		a.decedentName = strings.TrimSpace(input)
		a.collected["decedent_name"] = true
		return msgDecedentDeathDate
	}
	if !a.collected["decedent_death_date"] {
		d, ok := parseDate(input)
		if !ok {
			return msgBadDate + "\n" + msgDecedentDeathDate
		}
		a.deathDate = &d
		a.collected["decedent_death_date"] = true
		return msgDecedentBirthDate
	}
	if !a.collected["decedent_birth_date"] {
		if !isUnknown(input) {
			if d, ok := parseDate(input); ok {
				a.birthDate = &d
			} else {
				return msgBadDate + "\n" + msgDecedentBirthDate
			}
		}
		a.collected["decedent_birth_date"] = true
		a.state = StateSpouse
		return msgSpouseQuestion
	}
	return msgSpouseQuestion
}

func (a *Agent) processSpouse(ctx context.Context, input string) string {
	if !a.collected["has_spouse"] {
		a.collected["has_spouse"] = true
		if !a.parseYesNo(ctx, input) {
			a.state = StateChildren
			return msgChildrenQuestion
		}
		return msgSpouseInfo
	}
	a.spouses = append(a.spouses, a.extractPerson(ctx, input))
	a.state = StateChildren
	return msgChildrenQuestion
}

func (a *Agent) processChildren(ctx context.Context, input string) string {
	if !a.collected["has_children"] {
		a.collected["has_children"] = true
		if !a.parseYesNo(ctx, input) {
			a.state = StateParents
			return msgParentsQuestion
		}
		return msgChildrenCount
	}
	if !a.collected["children_count"] {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || n < 1 {
			return msgBadCount + "\n" + msgChildrenCount
		}
		a.childrenTotal = n
		a.collected["children_count"] = true
		return childInfoQuestion(1)
	}
	a.children = append(a.children, a.extractPerson(ctx, input))
	if len(a.children) < a.childrenTotal {
		return childInfoQuestion(len(a.children) + 1)
	}
	a.state = StateParents
	return msgParentsQuestion
}

func (a *Agent) processParents(ctx context.Context, input string) string {
	if !a.collected["has_parents"] {
		a.collected["has_parents"] = true
		if !a.parseYesNo(ctx, input) {
			a.state = StateSiblings
			return msgSiblingsQuestion
		}
		return msgParentInfo
	}
	for _, name := range splitNames(input) {
		a.parents = append(a.parents, newAlivePerson(name))
	}
	a.state = StateSiblings
	return msgSiblingsQuestion
}

func (a *Agent) processSiblings(ctx context.Context, input string) string {
	if !a.collected["has_siblings"] {
		a.collected["has_siblings"] = true
		if !a.parseYesNo(ctx, input) {
			a.state = StateSpecialCases
			a.specialStep = "renunciation"
			return msgRenunciation
		}
		return msgSiblingInfo
	}
	for _, name := range splitNames(input) {
		a.siblings = append(a.siblings, newAlivePerson(name))
	}
	a.state = StateSpecialCases
	a.specialStep = "renunciation"
	return msgRenunciation
}

func (a *Agent) processSpecialCases(ctx context.Context, input string) string {
	switch a.specialStep {
	case "renunciation":
		if a.parseYesNo(ctx, input) {
			a.specialStep = "renounced_who"
			return msgRenouncedWho
		}
	case "renounced_who":
		for _, name := range splitNames(input) {
			a.renounced = append(a.renounced, a.findOrCreate(name))
		}
	}
	a.state = StateConfirmation
	return msgConfirmation + a.summary()
}

func (a *Agent) processConfirmation(ctx context.Context, input string) string {
	if a.parseYesNo(ctx, input) {
		a.state = StateCompleted
		return msgCompleted
	}
	return msgCorrection
}

// findOrCreate matches a renounced name against already collected
// persons so exclusion lists share identity with the role lists.
func (a *Agent) findOrCreate(name string) *model.Person {
	for _, group := range [][]*model.Person{a.spouses, a.children, a.parents, a.siblings} {
		for _, p := range group {
			if p.Name == name {
				return p
			}
		}
	}
	return newAlivePerson(name)
}

func (a *Agent) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "被相続人: %s\n", a.decedentName)
	if a.deathDate != nil {
		fmt.Fprintf(&b, "死亡日: %s\n", a.deathDate.Format("2006-01-02"))
	}
	writeGroup(&b, "配偶者", a.spouses)
	writeGroup(&b, "子", a.children)
	writeGroup(&b, "直系尊属", a.parents)
	writeGroup(&b, "兄弟姉妹", a.siblings)
	writeGroup(&b, "相続放棄", a.renounced)
	return b.String()
}

func writeGroup(b *strings.Builder, label string, persons []*model.Person) {
	if len(persons) == 0 {
		return
	}
	names := make([]string, len(persons))
	for i, p := range persons {
		names[i] = p.Name
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(names, "、"))
}

type personExtraction struct {
	Name      string `json:"name"`
	Alive     *bool  `json:"alive"`
	DeathDate string `json:"death_date"`
}

type yesNoAnswer struct {
	Answer bool `json:"answer"`
}

// extractPerson asks the LLM to structure a free-form description; when
// the model is unreachable or returns garbage, the first line of the
// answer serves as the name of a living person.
func (a *Agent) extractPerson(ctx context.Context, input string) *model.Person {
	resp, err := a.client.Generate(ctx, fmt.Sprintf(a.prompts.PersonExtraction, input))
	if err == nil {
		if ext, perr := llm.ParseJSON[personExtraction](resp); perr == nil && ext.Name != "" {
			p := newAlivePerson(ext.Name)
			if ext.Alive != nil {
				p.Alive = *ext.Alive
			}
			if d, ok := parseDate(ext.DeathDate); ok {
				p.DeathDate = &d
				p.Alive = false
			}
			return p
		}
	}
	name := strings.TrimSpace(strings.SplitN(input, "\n", 2)[0])
	return newAlivePerson(name)
}

// parseYesNo checks the usual keywords first and only consults the LLM
// for answers that match neither list.
func (a *Agent) parseYesNo(ctx context.Context, input string) bool {
	text := strings.ToLower(strings.TrimSpace(input))
	switch text {
	case "はい", "yes", "y", "有", "あり", "います", "いる":
		return true
	case "いいえ", "no", "n", "無", "なし", "いません", "いない":
		return false
	}
	resp, err := a.client.Generate(ctx, fmt.Sprintf(a.prompts.YesNo, input))
	if err != nil {
		return false
	}
	ans, err := llm.ParseJSON[yesNoAnswer](resp)
	if err != nil {
		return false
	}
	return ans.Answer
}

func newAlivePerson(name string) *model.Person {
	return &model.Person{ID: uuid.New().String(), Name: name, Alive: true}
}

func childInfoQuestion(n int) string {
	return fmt.Sprintf("%d人目のお子様のお名前と、ご存命かどうかを教えてください。", n)
}

func isUnknown(input string) bool {
	switch strings.TrimSpace(input) {
	case "不明", "わからない", "分からない":
		return true
	}
	return false
}

func splitNames(input string) []string {
	parts := regexp.MustCompile(`[、,]`).Split(input, -1)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

var jpDate = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)

// parseDate accepts ISO, slash, 年月日 and Japanese era forms.
func parseDate(input string) (time.Time, bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "2006/1/2", "2006.1.2"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	if m := jpDate.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		if int(t.Month()) == mo && t.Day() == d {
			return t, true
		}
		return time.Time{}, false
	}
	if t, err := era.Parse(text); err == nil {
		return t, true
	}
	return time.Time{}, false
}
