package services

import (
	"fmt"
	"strings"

	"github.com/prepnexus/learning-service/internal/models"
)

// Prompt builders for every AI-facing operation. Each prompt demands
// strict JSON so the response can be validated at the boundary.

func quizPrompt(topic, level, role, focus string) string {
	var b strings.Builder
	b.WriteString("You are a technical interviewer.\n\n")
	b.WriteString("Generate exactly 5 high-quality MCQs.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", level)
	fmt.Fprintf(&b, "Role: %s\n", role)
	fmt.Fprintf(&b, "Focus Area: %s\n\n", focus)
	b.WriteString("Rules:\n")
	b.WriteString("- No generic questions\n")
	b.WriteString("- No vague definitions\n")
	b.WriteString("- Questions must test applied understanding\n")
	b.WriteString("- At least 2 scenario-based\n")
	b.WriteString("- Include code snippet if topic allows\n\n")
	b.WriteString("Return JSON only:\n")
	b.WriteString(`{
  "questions": [
    {
      "question": "",
      "options": [],
      "correct_answer": "",
      "explanation": ""
    }
  ]
}`)
	return b.String()
}

func assignmentPrompt(topic, level, role, levelInstructions string) string {
	var b strings.Builder
	b.WriteString("You are a senior technical educator.\n\n")
	b.WriteString("Generate a practical assignment for:\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Level: %s\n", level)
	fmt.Fprintf(&b, "Role: %s\n\n", role)
	fmt.Fprintf(&b, "Level Instructions: %s\n\n", levelInstructions)
	b.WriteString("Return JSON only:\n")
	b.WriteString(`{
  "title": "",
  "difficulty": "",
  "problem_statement": "",
  "requirements": [],
  "constraints": [],
  "expected_output": "",
  "evaluation_criteria": []
}`)
	b.WriteString("\n\nDo NOT generate theory explanation.\n")
	b.WriteString("Do NOT ask random questions.\n")
	b.WriteString("Make it practical and skill-based.")
	return b.String()
}

func evaluationPrompt(title, criteria, codeText, githubLink string) string {
	if codeText == "" {
		codeText = "N/A"
	}
	if githubLink == "" {
		githubLink = "N/A"
	}

	var b strings.Builder
	b.WriteString("You are an expert technical evaluator.\n")
	b.WriteString("Evaluate the following assignment submission strictly based on:\n")
	b.WriteString("- Logical correctness\n- Concept application\n- Code structure\n- Completeness\n- Efficiency\n\n")
	b.WriteString("Assignment Context:\n")
	fmt.Fprintf(&b, "Title: %s\n", title)
	fmt.Fprintf(&b, "Criteria: %s\n\n", criteria)
	b.WriteString("Return ONLY JSON with this structure:\n")
	b.WriteString(`{
  "score": int (0-100),
  "concept_coverage": "string",
  "mistakes": ["string"],
  "improvement_suggestions": ["string"]
}`)
	b.WriteString("\n\nSubmission Content:\n")
	fmt.Fprintf(&b, "Code/Text: %s\n", codeText)
	fmt.Fprintf(&b, "GitHub: %s\n", githubLink)
	return b.String()
}

func studyPlanPrompt(weakTopics []string, role string) string {
	var b strings.Builder
	b.WriteString("You are an AI academic planner.\n")
	fmt.Fprintf(&b, "Generate a structured weekly study plan for a %s focusing on these weak topics: %s.\n",
		role, strings.Join(weakTopics, ", "))
	b.WriteString("Return ONLY JSON with the following structure:\n")
	b.WriteString(`{
  "weekly_goal": "string",
  "daily_tasks": [
    {
      "day": "string",
      "focus_topic": "string",
      "tasks": ["string", "string"]
    }
  ],
  "mini_projects": ["string"],
  "revision_schedule": ["string"]
}`)
	b.WriteString("\n\nGenerate structured weekly study plan in JSON only.")
	return b.String()
}

func starterPlanPrompt(resumeTopics, suggestedTopics []string, role string) string {
	var b strings.Builder
	b.WriteString("You are an academic planner.\n")
	fmt.Fprintf(&b, "User has not attempted any quiz or assignment for the role of %s.\n", role)
	fmt.Fprintf(&b, "Based on their Resume Topics: %s\n", strings.Join(resumeTopics, ", "))
	fmt.Fprintf(&b, "And Suggested Learning Topics: %s\n", strings.Join(suggestedTopics, ", "))
	b.WriteString("Generate a beginner-friendly 7 day starter plan.\n")
	b.WriteString("Return ONLY JSON with the structure:\n")
	b.WriteString(`{
  "weekly_goal": "string",
  "daily_tasks": [
    {
      "day": "string",
      "focus_topic": "string",
      "tasks": ["string"]
    }
  ],
  "mini_projects": ["string"],
  "revision_schedule": ["string"]
}`)
	b.WriteString("\n\nGenerate beginner-friendly starter plan in JSON only.")
	return b.String()
}

func resourcesPrompt(topic, level, searchIntent string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical resource curator.\n")
	fmt.Fprintf(&b, "Generate high-quality learning resources for the topic '%s' at a '%s' level.\n", topic, level)
	fmt.Fprintf(&b, "Search intent involves: %s.\n", searchIntent)
	b.WriteString("Do NOT include spam links. Prefer official documentation and highly recognized platforms (YouTube, freeCodeCamp, MDN, official docs).\n")
	b.WriteString("Return ONLY JSON with the structure:\n")
	b.WriteString(`{
  "topic": "string",
  "level": "string",
  "resources": {
    "youtube": [{"title": "string", "url": "string"}],
    "documentation": [{"title": "string", "url": "string"}],
    "practice": [{"title": "string", "url": "string"}],
    "articles": [{"title": "string", "url": "string"}]
  }
}`)
	b.WriteString("\n\nProvide real, standard URLs. Return ONLY JSON.")
	return b.String()
}

func resumeAnalysisPrompt(resumeText, role string) string {
	var b strings.Builder
	b.WriteString("You are a professional ATS Resume Analyzer.\n")
	fmt.Fprintf(&b, "Analyze the resume for the role of %s.\n", role)
	b.WriteString("Return ONLY JSON with:\n")
	b.WriteString(`{
  "skill_relevance": int (0-100),
  "project_depth": int (0-100),
  "experience_score": int (0-100),
  "structure_score": int (0-100),
  "missing_skills": [],
  "recommendations": [],
  "extracted_topics": []
}`)
	b.WriteString("\n\n")
	b.WriteString(resumeText)
	return b.String()
}

func interviewStartPrompt(resumeText, role string, skills []string, difficulty string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical interviewer and career coach.\n")
	b.WriteString("You must return STRICT JSON only, no markdown, matching the schema provided.\n\n")
	b.WriteString("Analyze the candidate resume and generate 5-7 interview questions.\n\n")
	fmt.Fprintf(&b, "Target role: %s\n", role)
	fmt.Fprintf(&b, "Skill stack: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "Difficulty preference: %s\n\n", difficulty)
	b.WriteString("Resume text:\n")
	b.WriteString(resumeText)
	b.WriteString("\n\n1) First, compute:\n")
	b.WriteString("- resume_strength_score (0-100)\n")
	b.WriteString("- role_skill_match_score (0-100)\n")
	b.WriteString("- missing_skills (list of important skills missing for this role)\n\n")
	b.WriteString("2) Then generate between 5 and 7 questions across these categories:\n")
	b.WriteString("- Technical\n- Behavioral\n- System Design\n- Project Deep Dive\n\n")
	b.WriteString("For each question, provide:\n")
	b.WriteString("- question_id (short unique string)\n")
	b.WriteString("- category (one of: Technical, Behavioral, System Design, Project Deep Dive)\n")
	b.WriteString("- difficulty (Easy, Medium, Hard)\n")
	b.WriteString("- question_text\n")
	b.WriteString("- expected_keywords (3-8 key phrases you expect in a strong answer)\n")
	b.WriteString("- evaluation_guidelines (1-3 sentences)\n")
	b.WriteString(`- scoring_weights: always use {"keyword":0.30,"technical":0.30,"logical":0.20,"terminology":0.10,"completeness":0.10}` + "\n\n")
	b.WriteString("Return JSON ONLY in this shape:\n")
	b.WriteString(`{
  "resume_analysis": {
    "resume_strength_score": 0,
    "role_skill_match_score": 0,
    "missing_skills": []
  },
  "questions": [
    {
      "question_id": "q1",
      "category": "Technical",
      "difficulty": "Medium",
      "question_text": "...",
      "expected_keywords": ["..."],
      "evaluation_guidelines": "...",
      "scoring_weights": {
        "keyword": 0.30,
        "technical": 0.30,
        "logical": 0.20,
        "terminology": 0.10,
        "completeness": 0.10
      }
    }
  ]
}`)
	return b.String()
}

func answerEvaluationPrompt(question models.InterviewQuestion, answerText string) string {
	w := question.ScoringWeights

	var b strings.Builder
	b.WriteString("You are evaluating a single interview answer.\n")
	b.WriteString("Return STRICT JSON only, no markdown.\n\n")
	fmt.Fprintf(&b, "Question category: %s\n", question.Category)
	fmt.Fprintf(&b, "Difficulty: %s\n", question.Difficulty)
	fmt.Fprintf(&b, "Question: %s\n", question.QuestionText)
	fmt.Fprintf(&b, "Expected keywords: %s\n", strings.Join(question.ExpectedKeywords, ", "))
	fmt.Fprintf(&b, "Evaluation guidelines: %s\n\n", question.EvaluationGuidelines)
	b.WriteString("Candidate answer:\n")
	b.WriteString(answerText)
	b.WriteString("\n\nScore the answer on these components (0-100 each):\n")
	fmt.Fprintf(&b, "- keyword (weight %.2f)\n", w.Keyword)
	fmt.Fprintf(&b, "- technical (weight %.2f)\n", w.Technical)
	fmt.Fprintf(&b, "- logical (weight %.2f)\n", w.Logical)
	fmt.Fprintf(&b, "- terminology (weight %.2f)\n", w.Terminology)
	fmt.Fprintf(&b, "- completeness (weight %.2f)\n\n", w.Completeness)
	b.WriteString("Then compute total as the weighted sum of these components.\n")
	b.WriteString("Also identify a short list of missing_concepts (terms, ideas, or steps that should be improved).\n")
	b.WriteString("Provide actionable feedback in 2-4 sentences.\n\n")
	b.WriteString("Additionally, evaluate communication clarity (0-100) considering grammar, structure (e.g. STAR), redundancy, and articulation.\n")
	b.WriteString(`Classify it into one of: "Excellent", "Good", "Fair", "Needs Improvement".` + "\n\n")
	b.WriteString("Return JSON ONLY in this shape:\n")
	b.WriteString(`{
  "scores": {
    "keyword": 0,
    "technical": 0,
    "logical": 0,
    "terminology": 0,
    "completeness": 0,
    "total": 0
  },
  "missing_concepts": ["..."],
  "feedback": "...",
  "communication": {
    "cci_score": 0,
    "cci_classification": ""
  }
}`)
	return b.String()
}
