package synthesis

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// TemplateClient synthesizes replies from canned per-persona templates.
// It stands in for a real generative backend behind the same Client interface.
type TemplateClient struct {
	// SimulateLatency adds a randomized 800-2200ms delay to mimic network
	// cost of a real provider. Off by default.
	SimulateLatency bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTemplateClient constructs a TemplateClient.
func NewTemplateClient(simulateLatency bool) *TemplateClient {
	return &TemplateClient{
		SimulateLatency: simulateLatency,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate classifies the message into a topic for the persona and picks one
// of the canned templates for that (persona, topic) pair at random.
func (c *TemplateClient) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrGeneration
	}

	if c.SimulateLatency {
		delay := time.Duration(800+c.intn(1401)) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	persona := req.Persona
	if _, ok := personaTemplates[persona]; !ok {
		persona = "tutor"
	}
	topic := classifyTopic(req.Message)
	templates := personaTemplates[persona][topic]
	if len(templates) == 0 {
		templates = personaTemplates[persona][topicGeneral]
	}

	reply := templates[c.intn(len(templates))]
	if len(req.Documents) > 0 {
		reply = reply + " " + documentAddendum(req.Documents)
	}
	return reply, nil
}

func (c *TemplateClient) intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(n)
}

const (
	topicMath     = "math"
	topicScience  = "science"
	topicGreeting = "greeting"
	topicGeneral  = "general"
)

var topicKeywords = map[string][]string{
	topicMath:     {"math", "equation", "algebra", "geometry", "calcol", "matematica", "equazione"},
	topicScience:  {"science", "physics", "chemistry", "biology", "scienza", "fisica", "chimica", "biologia"},
	topicGreeting: {"hello", "hi ", "hey", "ciao", "buongiorno", "salve"},
}

func classifyTopic(message string) string {
	lowered := strings.ToLower(message)
	for _, topic := range []string{topicMath, topicScience, topicGreeting} {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lowered, kw) {
				return topic
			}
		}
	}
	return topicGeneral
}

var personaTemplates = map[string]map[string][]string{
	"tutor": {
		topicMath: {
			"Let's break this down step by step. Start by writing out what the problem gives you, then identify which rule connects those pieces.",
			"Good question. Before jumping to the formula, can you tell me what quantity you're actually solving for? That usually makes the path clearer.",
		},
		topicScience: {
			"Think of it as an experiment: what would you expect to happen, and what does the material actually say happens? The gap between the two is where the learning is.",
			"Let's anchor this to a concrete example first, then we can build up to the general principle.",
		},
		topicGreeting: {
			"Hi! I'm here to help you work through your study material. What are you looking at today?",
			"Hello! Ready when you are — pick a topic or a document and we'll dig in together.",
		},
		topicGeneral: {
			"Let's take this one piece at a time. What part feels least clear right now?",
			"That's worth unpacking. Try explaining what you understand so far, and I'll help fill the gaps.",
			"Good question to be asking. Let's look at the core idea first and build from there.",
		},
	},
	"docente": {
		topicMath: {
			"Formally, the result follows from the definitions involved. Review the hypothesis of the theorem carefully before applying it.",
			"Note the distinction between the statement and its converse; this is a frequent source of errors in proofs.",
		},
		topicScience: {
			"The rigorous treatment requires stating the assumptions of the model explicitly. Consider which ones hold in your case.",
			"Refer to the primary definition first; popular summaries often omit the boundary conditions that matter here.",
		},
		topicGreeting: {
			"Good day. State the topic you wish to examine and we will proceed systematically.",
			"Welcome. I suggest we begin from the formal definitions relevant to your material.",
		},
		topicGeneral: {
			"The question deserves a precise answer. Let us first establish the terminology, then the argument follows naturally.",
			"Consider the structure of the material: premises, development, conclusion. Identify where your doubt sits in that structure.",
		},
	},
	"coach": {
		topicMath: {
			"You've got this — math rewards persistence more than talent. Set a 25-minute timer and work just the first step.",
			"Every solved problem builds momentum. Start with one you can do, then stretch to the harder one.",
		},
		topicScience: {
			"Curiosity is your best tool here. Write down the one question you most want answered and chase that first.",
			"Progress over perfection: summarize what you learned today in two sentences and you're already ahead.",
		},
		topicGreeting: {
			"Hey! Great to see you showing up for your studies. What's the goal for this session?",
			"Welcome back! Small consistent sessions beat cramming — what shall we tackle?",
		},
		topicGeneral: {
			"Keep going — confusion is just the feeling of your brain rewiring. What's the next small step you can take?",
			"You're closer than you think. Break the task into three parts and commit to finishing just the first one now.",
			"Focus on what you can control: time on task. Twenty minutes of honest effort will move this forward.",
		},
	},
}

func documentAddendum(docs []DocumentContext) string {
	titles := make([]string, 0, len(docs))
	for _, d := range docs {
		titles = append(titles, fmt.Sprintf("%q", d.Title))
	}
	first := docs[0]
	if first.Summary != "" {
		return fmt.Sprintf("Looking at %s: %s", strings.Join(titles, ", "), first.Summary)
	}
	return fmt.Sprintf("I'm basing this on %s.", strings.Join(titles, ", "))
}
