package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// portfolioContext is the fixed knowledge base the assistant answers from.
// The model is instructed to never go beyond it.
const portfolioContext = `
Name: Anubhav Joshi
Role: Currently a B.Tech student at Manipal University Jaipur, specializing in AI and ML
Location: Rajasthan, India
Contact: magicalfizz@gmail.com
Education: B.Tech'26, Manipal University Jaipur (AI/ML Specialization, CGPA 9.17), Class 12'21 (90.4%) from Blue Heaven Vidhyalaya, Class 10'19 (95.4%) from Tagore International School

Professional Summary:
AI Engineer specializing in Machine Learning, Natural Language Processing, and Reinforcement Learning. Experience building robust AI pipelines and integrating complex models into applications, combining strong software engineering skills (full-stack, microservices, APIs) with a solid foundation in core CS and DSA.

Experience:
1. AI Engineer at Blinkadz (Jan 2025 - April 2025)
- Delivered core features with Next.js
- Built a FastAPI/Firebase microservice for the AI processing pipeline, increasing throughput by 45%
- Automated LinkedIn campaign workflows via Marketing API reducing setup time by 85%
- Developed Playwright tests improving coverage to 90%
- Designed and implemented a 12-agent orchestration system using Google ADK for automatic video-ad creation, cutting processing time by 95%

2. Vice Chair at IEEE GRSS (September 2024 - Jan 2025)
- Led initiatives for the Geoscience & Remote Sensing Society IEEE chapter
- Organized technical workshops
- Coordinated research presentations
- Facilitated collaboration between academia and industry

Projects:
1. NoteFlow (github.com/anubhav-qt/noteflow_new)
- AI-powered system leveraging NLP and CV for generating well-structured notes with diagrams and flow-charts from textual or handwritten input
- Optimized the AI pipeline for diagram generation processed in parallel, reducing processing time by 80%
- Tech stack: React, Express, Firebase, Gemini and GPT-4o

2. Moody (github.com/anubhav-qt/moody)
- AI-powered music recommender analyzing Spotify listening history for personalized playlist generation
- Utilizes NLP and ML techniques including neural embeddings, KNN search, and a vector database to combine content-based and mood filtering across 114K+ songs
- Tech stack: Typescript, Python (TensorFlow and Flask), Firebase, React and Express

3. Expense Tracker (github.com/anubhav-qt/personal-tracker)
- Intuitive expense tracking system with multi-timeframe analytics and integrated Gemini AI-powered financial insights
- Improved budgeting accuracy and user retention by 30% by providing intelligent recommendations
- Tech stack: Typescript, Supabase, PostgreSQL, Recharts, Gemini, React and Express

Technical Skills:
- Programming Languages: Python, C++, C, TypeScript, JavaScript, SQL
- AI & Machine Learning: Deep Learning, Natural Language Processing (NLP), Computer Vision (CV), Reinforcement Learning (RL), Generative AI, LLMs, Transformer Architecture (Familiarity), LLM Orchestration, TensorFlow, Keras, Scikit-learn, OpenCV, LangChain, Google Agent Development Kit, Gemini API, Vector Databases, Pandas, NumPy, Seaborn, Matplotlib, Plotly
- Software Engineering & MLOps: Full Stack Development, Microservices, API Design, API Integration, MLOps, React, React Native, Expo, Next.js, Node.js, Express, Flask, Docker, Git, GitHub, Linux, Google Cloud Platform (GCP), Render, Firebase, Supabase, Playwright, Selenium
- Databases: BigQuery, PostgreSQL, MongoDB, MySQL

Research Work and Experience:
- Deforestation monitoring in India using Google Earth Engine and satellite imagery (Landsat, Sentinel-2 datasets). Applied CNNs and Transformers for classifying and predicting deforestation hotspots over a 10-year period.
- Researched AI avatar and video generation for Blinkadz, investigating underlying technologies of platforms like HeyGen/Synthesia (GANs, CNNs, DNNs, Transformers). Evaluated 22+ LLMs to identify the best fit for an automatic, brand-personalized ad generation pipeline.
- Authored comprehensive case studies for college research, including a study on Large Language Models (LLMs) and a thought experiment on developing Reinforcement Learning Agents capable of generating novel actions beyond their predefined action set.

Miscellaneous:
- Has solved over 300 LeetCode problems of varying difficulty.
- Has various certifications, including Cisco's Networking and Cybersecurity, Google's Data Analytics, Coursera's Deep Learning Specialization, NPTEL's Design and Analysis of Algorithms, Introduction to Machine Learning, and even over 5 Student Excellence Awards from Manipal University Jaipur in the last 5 semesters.

Future Goals / Research Interests:
- Deepen foundational knowledge in Deep Learning and Transformer architectures.
- Research state-of-the-art LLMs to identify areas for improvement, with the goal of developing novel architectures and publishing research.
- Building a cross-platform AI-powered mobile application "Catalyst" (React Native) for document understanding and interaction (similar to Google NotebookLM), and a comprehensive study companion.
- Exploring the application of Reinforcement Learning for advanced systems-level problems, such as kernel resource management.
- To become a master in fields of NLP, CV, and RL, build world class AI systems, and publish research in top-tier conferences.
- To build a strong portfolio of projects and research work, and to contribute to the open-source community.
`

// personaAck is the synthetic model reply that closes the persona preamble.
const personaAck = "I understand. I'm Bob, Anubhav's portfolio assistant. I'll answer questions about Anubhav based solely on the information provided, keeping responses under 100 words."

func systemPrompt() string {
	return fmt.Sprintf(`
You are Bob, an AI assistant for Anubhav Joshi's portfolio website.
Use ONLY the following information to answer questions about Anubhav:

%s

Important instructions:
1. Respond ONLY based on the information provided above.
2. If you don't know the answer based on the provided information, say "I don't have that information about Anubhav."
3. Keep your answer concise (under 100 words).
4. DO NOT make up any information that's not in the provided context.
5. Respond in a professional, helpful manner.
6. Your name is Bob, refer to yourself as Bob if needed.
7. Remember the conversation history and provide coherent follow-up responses.
8. Don't write anything extra like "Sure, here is the answer" or "I can help you with that" or "Based on the information provided, I can say that...".
`, portfolioContext)
}

// --- Gemini wire types ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type generateChunk struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ChatService relays conversations to the Gemini streaming API.
type ChatService struct {
	APIKey  string
	Model   string
	BaseURL string       // overridable for tests
	Client  *http.Client // no client-side timeout: the stream is open-ended
}

// NewChatService creates a ChatService against the hosted Gemini endpoint.
func NewChatService(apiKey, model string) *ChatService {
	return &ChatService{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: geminiBaseURL,
		Client:  &http.Client{},
	}
}

// buildContents assembles the ordered request sequence: the persona preamble
// as a synthetic user/model exchange, the filtered caller history, then the
// new user message. History entries with no role or blank content are
// dropped; any role other than "user" maps to "model".
func buildContents(history []ChatTurn, message string) []geminiContent {
	contents := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: systemPrompt()}}},
		{Role: "model", Parts: []geminiPart{{Text: personaAck}}},
	}
	for _, turn := range history {
		if turn.Role == "" || strings.TrimSpace(turn.Content) == "" {
			continue
		}
		role := "model"
		if turn.Role == "user" {
			role = "user"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: turn.Content}}})
	}
	return append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})
}

// Open submits the streaming generation request. It fails before anything is
// written to the client, so callers can still answer with a plain HTTP error.
// The stream inherits ctx: cancelling it aborts the upstream generation.
func (s *ChatService) Open(ctx context.Context, message string, history []ChatTurn) (*ChatStream, error) {
	body, err := json.Marshal(generateRequest{
		Contents: buildContents(history, message),
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 200,
		},
		SafetySettings: defaultSafetySettings,
	})
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", s.BaseURL, s.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("gemini responded %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return &ChatStream{body: resp.Body, reader: newSSEReader(resp.Body)}, nil
}

// ChatStream yields the incremental text chunks of one generation.
type ChatStream struct {
	body   io.ReadCloser
	reader *sseReader
	Logger echo.Logger // optional; malformed upstream events are logged here
}

// Next returns the next non-empty text chunk, or io.EOF once the upstream
// stream is exhausted. Events that fail to parse are skipped, not fatal.
func (st *ChatStream) Next() (string, error) {
	for {
		payload, err := st.reader.next()
		if err != nil {
			return "", err
		}
		var chunk generateChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			if st.Logger != nil {
				st.Logger.Warnf("skipping malformed gemini event: %v", err)
			}
			continue
		}
		var b strings.Builder
		for _, cand := range chunk.Candidates {
			for _, part := range cand.Content.Parts {
				b.WriteString(part.Text)
			}
		}
		if b.Len() == 0 {
			continue
		}
		return b.String(), nil
	}
}

// Close releases the upstream connection. Safe to call after Next returned.
func (st *ChatStream) Close() error {
	return st.body.Close()
}
