package content

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/TalentPipe/internal/models"
)

func buildQuestionsPrompt(stageType models.StageType, job models.JobPosting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d interview questions for a %s interview for a %s position.\n\n",
		QuestionsPerStage, stageType, job.Title)
	fmt.Fprintf(&b, "Job details:\nTitle: %s\nDepartment: %s\nDescription: %s\nExperience Level: %s\n\n",
		job.Title, job.Department, job.Description, job.Experience)
	b.WriteString(`For each question, provide:
1. The question text
2. The category of question
3. What to look for in the answer

Format each question as a JSON object with these exact fields:
{
  "text": "question text here",
  "category": "type of question",
  "expectedAnswer": "what to look for in the answer"
}

`)
	fmt.Fprintf(&b, "Return exactly %d questions in a JSON array.", QuestionsPerStage)
	return b.String()
}

func buildAnalysisPrompt(question models.Question, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following interview answer for the question: %q\n\n", question.Text)
	fmt.Fprintf(&b, "Expected answer criteria:\n%s\n\n", question.ExpectedAnswer)
	fmt.Fprintf(&b, "Candidate's answer:\n%s\n\n", answer)
	b.WriteString(`Respond with a JSON object with these exact fields:
{
  "score": <number from 0 to 100>,
  "feedback": "specific feedback on the answer's strengths and areas for improvement"
}`)
	return b.String()
}

func buildDescriptionPrompt(p models.JobPosting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed job description for a %s position in the %s department.\n",
		p.Title, p.Department)
	fmt.Fprintf(&b, "The position is %s with %s shift, requiring %s level experience.\n", p.EmploymentType, p.Shift, p.Experience)
	fmt.Fprintf(&b, "Location: %s\n", p.Location)
	if p.Salary.Currency != "" {
		fmt.Fprintf(&b, "Salary range: %d - %d %s\n", p.Salary.Min, p.Salary.Max, p.Salary.Currency)
	}
	if len(p.PhysicalRequirements) > 0 {
		b.WriteString("\nPhysical Requirements:\n")
		for _, req := range p.PhysicalRequirements {
			fmt.Fprintf(&b, "- %s\n", req)
		}
	}
	if len(p.Benefits) > 0 {
		b.WriteString("\nBenefits:\n")
		for _, benefit := range p.Benefits {
			fmt.Fprintf(&b, "- %s\n", benefit)
		}
	}
	b.WriteString(`
Please write a professional job description that includes:
1. A brief overview of the role
2. Key responsibilities
3. Required qualifications
4. Benefits and perks

Make it engaging and professional, suitable for a job posting.`)
	return b.String()
}

func buildMatchPrompt(c models.Candidate, p models.JobPosting) string {
	var b strings.Builder
	b.WriteString(`Analyze the compatibility between this candidate and job posting.
Provide a detailed analysis including:
1. Overall match score (0-100)
2. Explanation of the score
3. Key strengths that make this a good match
4. Potential gaps or areas for improvement
5. Recommendations for the candidate

`)
	fmt.Fprintf(&b, "Job Posting:\nTitle: %s\nDepartment: %s\nLocation: %s\nEmployment Type: %s\nExperience Level: %s\nDescription: %s\n\n",
		p.Title, p.Department, p.Location, p.EmploymentType, p.Experience, p.Description)
	fmt.Fprintf(&b, "Candidate Profile:\nName: %s\nPosition: %s\nLocation: %s\n", c.Name, c.Position, c.Location)
	for _, exp := range c.Experience {
		fmt.Fprintf(&b, "Experience: %s at %s (%s - %s)\n", exp.Position, exp.Company, exp.StartDate, exp.EndDate)
	}
	for _, edu := range c.Education {
		fmt.Fprintf(&b, "Education: %s in %s from %s (%s)\n", edu.Degree, edu.Field, edu.Institution, edu.GraduationDate)
	}
	fmt.Fprintf(&b, "Skills: %s\nLanguages: %s\nCertifications: %s\n\n",
		strings.Join(c.Skills, ", "), strings.Join(c.Languages, ", "), strings.Join(c.Certifications, ", "))
	b.WriteString(`Please provide the analysis in the following JSON format:
{
  "score": number,
  "explanation": string,
  "strengths": string[],
  "gaps": string[],
  "recommendations": string[]
}`)
	return b.String()
}
