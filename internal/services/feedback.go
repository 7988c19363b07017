package services

import (
	"fmt"
	"strconv"
	"strings"
)

func performanceLevel(overall float64) string {
	switch {
	case overall >= 90:
		return "excellent"
	case overall >= 80:
		return "very good"
	case overall >= 70:
		return "good"
	case overall >= 60:
		return "satisfactory"
	default:
		return "needs improvement"
	}
}

func strengthsAndWeaknesses(overall float64) string {
	switch {
	case overall >= 90:
		return "excellent understanding of the role requirements and strong technical and communication skills"
	case overall >= 80:
		return "good technical knowledge and communication skills with minor areas for improvement"
	case overall >= 70:
		return "solid foundational knowledge with several areas that could benefit from further development"
	case overall >= 60:
		return "adequate understanding of basic concepts but significant room for improvement in both technical and communication areas"
	default:
		return "opportunities for growth in multiple areas including technical knowledge, problem-solving, and interview communication"
	}
}

func nextSteps(overall float64) string {
	switch {
	case overall >= 90:
		return "You're well-prepared for real interviews. Continue practicing with more specialized or advanced questions in your field."
	case overall >= 80:
		return "Focus on refining your responses in the areas mentioned above. Consider practicing with industry-specific questions."
	case overall >= 70:
		return "Review the feedback for each category and allocate more practice time to your weaker areas. Consider multiple mock interviews."
	case overall >= 60:
		return "Dedicate significant practice time to both technical skills and interview technique. Use resources like books, courses, and practice problems."
	default:
		return "Develop a structured study plan addressing both technical knowledge and interview skills. Consider professional coaching if available."
	}
}

// metricFeedback holds the high (>=80), mid (>=60) and low texts per dimension.
var metricFeedback = map[string][3]string{
	"contentRelevance": {
		"Your answers were highly relevant to the questions and job requirements. You demonstrated excellent understanding of the role.",
		"Your responses were mostly relevant to the questions asked. Continue practicing aligning your answers with job requirements.",
		"Your answers sometimes missed the core of the questions. Focus on understanding what is being asked before responding.",
	},
	"communicationSkill": {
		"You communicated clearly and effectively, using professional language and appropriate examples.",
		"Your communication was generally clear. Work on being more concise and structuring your responses better.",
		"Your responses could be more structured and concise. Practice the STAR method for behavioral questions.",
	},
	"technicalCompetence": {
		"You demonstrated strong technical knowledge relevant to the position.",
		"Your technical knowledge was satisfactory. Consider deepening your understanding in key areas.",
		"Your technical responses revealed some knowledge gaps. Focus on strengthening core technical concepts.",
	},
	"problemSolving": {
		"Your approach to technical problems was methodical and effective.",
		"You showed decent problem-solving ability. Work on verbalizing your thought process more clearly.",
		"Your problem-solving could be more systematic. Practice breaking down complex problems into manageable steps.",
	},
	"responseConsistency": {
		"You answered questions consistently throughout the interview, maintaining quality throughout.",
		"Your response quality was somewhat inconsistent. Try to maintain focus throughout longer interviews.",
		"There was significant variation in your response quality. Work on maintaining consistent performance.",
	},
	"depthOfResponse": {
		"Your answers provided appropriate depth, with relevant details and examples.",
		"Some of your responses could have been more detailed. Use specific examples to strengthen your answers.",
		"Many of your answers lacked sufficient depth. Remember to provide context, action, and results in your examples.",
	},
	"criticalThinking": {
		"You demonstrated excellent critical thinking and analytical skills.",
		"Your critical thinking was adequate. Practice analyzing situations from multiple perspectives.",
		"Your responses could show more analysis and deeper thinking. Ask clarifying questions when needed.",
	},
	"behavioralCompetency": {
		"Your behavioral examples effectively demonstrated relevant soft skills and competencies.",
		"Your behavioral responses were adequate. Prepare more varied examples that highlight different strengths.",
		"Your behavioral examples were limited. Prepare a broader range of specific situations that demonstrate key competencies.",
	},
}

func feedbackFor(metric string, score float64) string {
	texts := metricFeedback[metric]
	switch {
	case score >= 80:
		return texts[0]
	case score >= 60:
		return texts[1]
	default:
		return texts[2]
	}
}

func percent(ratio float64) string {
	return strconv.FormatFloat(round1(ratio*100), 'f', -1, 64)
}

func performanceSummary(overall float64, st sessionStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your performance in this mock interview was %s. ", performanceLevel(overall))
	fmt.Fprintf(&b, "You demonstrated %s%% response coverage of the interview questions. ", percent(st.coverage))
	if st.codeQuestions > 0 {
		fmt.Fprintf(&b, "You completed %s%% of the coding challenges. ", percent(st.codeCoverage))
	}
	fmt.Fprintf(&b, "Overall, your responses showed %s.", strengthsAndWeaknesses(overall))
	return b.String()
}

func detailedFeedback(sub SubScores, overall float64) string {
	type line struct {
		label  string
		metric string
		score  *float64
	}
	lines := []line{
		{"Content Relevance", "contentRelevance", &sub.ContentRelevance},
		{"Communication Skills", "communicationSkill", &sub.CommunicationSkill},
		{"Technical Competence", "technicalCompetence", sub.TechnicalCompetence},
		{"Problem Solving", "problemSolving", sub.ProblemSolving},
		{"Response Consistency", "responseConsistency", &sub.ResponseConsistency},
		{"Depth of Response", "depthOfResponse", &sub.DepthOfResponse},
		{"Critical Thinking", "criticalThinking", &sub.CriticalThinking},
		{"Behavioral Competency", "behavioralCompetency", &sub.BehavioralCompetency},
	}
	var b strings.Builder
	b.WriteString("Your interview performance analysis:\n\n")
	for _, l := range lines {
		if l.score == nil {
			continue
		}
		score := strconv.FormatFloat(*l.score, 'f', -1, 64)
		fmt.Fprintf(&b, "%s (%s/100): %s\n\n", l.label, score, feedbackFor(l.metric, *l.score))
	}
	fmt.Fprintf(&b, "Next steps: %s", nextSteps(overall))
	return b.String()
}
