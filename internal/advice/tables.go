package advice

import (
	"fmt"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

// typeTemplate is everything the fallback generator knows about one Bristol type.
type typeTemplate struct {
	level     string
	concern   string
	diet      []string
	lifestyle string
	warnings  []string

	avoid       []string
	meals       domain.MealPlan
	water       string
	supplements []domain.Supplement

	exercise domain.Exercise
	toilet   domain.ToiletHabits
	stress   domain.Stress
	sleep    domain.Sleep

	tips         []string
	nextCheck    string
	expectations domain.Expectations
	monitoring   []string
	triggers     []string
	remedies     []domain.Remedy

	quickTip string
	action   string
}

var templates = [domain.BristolTypes]typeTemplate{
	// 1: separate hard lumps
	{
		level:   domain.LevelWarning,
		concern: "Severe constipation needs immediate improvement",
		diet: []string{
			"Increase dietary fiber (whole grains, vegetables)",
			"Drink 2000ml+ water daily",
			"Add probiotics",
		},
		lifestyle: "Walk 30 minutes daily, massage abdomen clockwise",
		warnings:  []string{"No bowel movement for 3+ days", "Severe abdominal pain"},
		avoid:     []string{"Processed foods", "White bread", "Red meat"},
		meals: domain.MealPlan{
			Breakfast: "Oatmeal with berries + yogurt",
			Lunch:     "Brown rice + plenty of vegetables + lean meat",
			Dinner:    "Sweet potato + plenty of green vegetables",
			Snacks:    "Apples, pears, dried figs",
		},
		water: "2500-3000ml, sip throughout the day",
		supplements: []domain.Supplement{
			{Name: "Probiotics", Dosage: "10 billion CFU", Timing: "After breakfast", Reason: "Improve gut flora"},
			{Name: "Magnesium", Dosage: "200mg", Timing: "Before bed", Reason: "Help bowel movement"},
		},
		exercise: domain.Exercise{
			Type:      "Brisk walking, swimming, yoga (twisting poses)",
			Duration:  "30 minutes",
			Frequency: "Daily",
			BestTime:  "Morning or 1 hour after meals",
		},
		toilet: domain.ToiletHabits{
			Timing:   "After waking or 30 minutes after breakfast",
			Position: "Elevate feet by 6 inches with a footstool",
			Duration: "No more than 10 minutes",
			Tips:     "Don't strain; breathe out slowly and relax the abdomen",
		},
		stress: domain.Stress{
			Techniques:    []string{"Diaphragmatic breathing, 5 minutes", "Progressive muscle relaxation"},
			DailyPractice: "Morning relaxation before the toilet routine",
		},
		sleep: domain.Sleep{Duration: "7-8 hours", Bedtime: "Before 11 PM", Tips: "Do a 5-minute abdominal massage in bed"},
		tips: []string{
			"Drink warm water with lemon first thing in the morning",
			"Take a 15-minute walk after meals to promote bowel movement",
			"Do 5-minute abdominal massage before bed",
		},
		nextCheck: "Tomorrow morning",
		expectations: domain.Expectations{
			ShortTerm:  "Softer stools within 3 days",
			MediumTerm: "Regular bowel movements within 1 week",
			LongTerm:   "Consistent Type 3-4 stools within 1 month",
		},
		monitoring: []string{"Days between bowel movements", "Stool hardness", "Abdominal pain or bloating"},
		triggers:   []string{"No bowel movement for 3 days", "Pain or bleeding when passing stool"},
		remedies: []domain.Remedy{
			{Name: "Flaxseed powder", Method: "Mix with warm water", Frequency: "Every morning", Benefit: "Natural laxative"},
			{Name: "Aloe vera juice", Method: "30ml before meals", Frequency: "Twice daily", Benefit: "Promotes bowel movement"},
		},
		quickTip: "Immediately increase water and fiber intake, consider probiotics",
		action:   "Drink 500ml warm water immediately, perform abdominal massage",
	},
	// 2: lumpy sausage
	{
		level:   domain.LevelAttention,
		concern: "Constipation requires dietary adjustment",
		diet: []string{
			"Eat more high-fiber fruits and vegetables",
			"Add oatmeal to breakfast",
			"Have yogurt after meals",
		},
		lifestyle: "Regular exercise, establish toilet routine",
		warnings:  []string{"Persistent difficulty", "Blood in stool"},
		avoid:     []string{"High-fat foods", "Excessive dairy", "Refined starches"},
		meals: domain.MealPlan{
			Breakfast: "Whole wheat toast + avocado + boiled egg",
			Lunch:     "Buckwheat noodles + seaweed soup",
			Dinner:    "Pumpkin soup + whole wheat bread",
			Snacks:    "Yogurt, nuts",
		},
		water: "2000-2500ml, prefer warm water",
		supplements: []domain.Supplement{
			{Name: "Probiotics", Dosage: "5 billion CFU", Timing: "After breakfast", Reason: "Balance gut"},
		},
		exercise: domain.Exercise{
			Type:      "Jogging, cycling, core exercises",
			Duration:  "30 minutes",
			Frequency: "5 times per week",
			BestTime:  "Morning or 1 hour after meals",
		},
		toilet: domain.ToiletHabits{
			Timing:   "Same time every day, ideally after breakfast",
			Position: "Elevate feet by 6 inches",
			Duration: "No more than 10 minutes",
			Tips:     "Respond to the urge promptly instead of holding it",
		},
		stress: domain.Stress{
			Techniques:    []string{"Deep breathing exercises", "10-minute meditation"},
			DailyPractice: "Daily relaxation practice",
		},
		sleep: domain.Sleep{Duration: "7-8 hours", Bedtime: "Before 11 PM", Tips: "Avoid screens before bed"},
		tips: []string{
			"Establish fixed toilet times to build habits",
			"Add fermented foods like kimchi or miso",
			"Don't delay when you feel the urge",
		},
		nextCheck: "In 2 days",
		expectations: domain.Expectations{
			ShortTerm:  "Easier bowel movements in 3 days",
			MediumTerm: "Normal stool form in 1 week",
			LongTerm:   "Regular bowel habits in 1 month",
		},
		monitoring: []string{"Ease of passing stool", "Shape changes", "Frequency"},
		triggers:   []string{"No improvement for 3 days", "New symptoms appear"},
		remedies: []domain.Remedy{
			{Name: "Prune juice", Method: "Drink 100ml before bed", Frequency: "Daily", Benefit: "Natural constipation relief"},
		},
		quickTip: "Eat more fruits and vegetables, increase exercise, establish regular toilet routine",
		action:   "Increase vegetable intake today",
	},
	// 3: sausage with cracks
	{
		level:   domain.LevelGood,
		concern: "Slightly dry, increase hydration",
		diet: []string{
			"Moderately increase fruit intake",
			"Stay hydrated",
			"Add olive oil",
		},
		lifestyle: "Maintain exercise routine",
		warnings:  []string{"Monitor hydration"},
		avoid:     []string{"Excessive coffee", "Alcohol"},
		meals: domain.MealPlan{
			Breakfast: "Multigrain porridge + nuts",
			Lunch:     "Whole grain rice + greens + fish",
			Dinner:    "Vegetable soup + brown rice",
			Snacks:    "Fruits, nuts",
		},
		water: "2000ml, normal intake",
		supplements: []domain.Supplement{
			{Name: "Prebiotics", Dosage: "5g", Timing: "Before meals", Reason: "Promote beneficial bacteria"},
		},
		exercise: domain.Exercise{
			Type:      "General aerobic exercise",
			Duration:  "30 minutes",
			Frequency: "5 times per week",
			BestTime:  "Morning or early evening",
		},
		toilet: domain.ToiletHabits{
			Timing:   "After waking or 30 minutes after meals",
			Position: "Elevate feet slightly",
			Duration: "No more than 10 minutes",
			Tips:     "Stay relaxed and don't rush",
		},
		stress: domain.Stress{
			Techniques:    []string{"Deep breathing exercises", "Short walks outdoors"},
			DailyPractice: "10 minutes of unwinding in the evening",
		},
		sleep: domain.Sleep{Duration: "7-8 hours", Bedtime: "Before 11 PM", Tips: "Keep a glass of water by the bed"},
		tips: []string{
			"Drink a glass of water before meals",
			"Increase olive oil intake",
			"Maintain exercise routine",
		},
		nextCheck: "In 3 days",
		expectations: domain.Expectations{
			ShortTerm:  "Smoother stools in 3 days",
			MediumTerm: "Type 4 stools most days within 1 week",
			LongTerm:   "Stable hydration habits in 1 month",
		},
		monitoring: []string{"Daily water intake", "Stool texture", "Frequency"},
		triggers:   []string{"Stools become harder or lumpier", "New symptoms appear"},
		remedies: []domain.Remedy{
			{Name: "Honey water", Method: "Warm water with honey", Frequency: "Morning on empty stomach", Benefit: "Moistens intestines"},
		},
		quickTip: "Moderately increase hydration, maintain exercise",
		action:   "Hydrate now",
	},
	// 4: smooth and soft
	{
		level:   domain.LevelExcellent,
		concern: "Ideal condition, maintain current routine",
		diet: []string{
			"Maintain balanced diet",
			"Continue current habits",
		},
		lifestyle: "Keep up good habits",
		warnings:  []string{"Sudden change in stool form or color lasting more than 3 days"},
		avoid:     []string{},
		meals: domain.MealPlan{
			Breakfast: "Balanced breakfast",
			Lunch:     "Balanced lunch",
			Dinner:    "Balanced dinner",
			Snacks:    "Moderate healthy snacks",
		},
		water:       "1500-2000ml, maintain current intake",
		supplements: []domain.Supplement{},
		exercise: domain.Exercise{
			Type:      "Maintain current exercise",
			Duration:  "30 minutes",
			Frequency: "5 times per week",
			BestTime:  "Any time that fits your routine",
		},
		toilet: domain.ToiletHabits{
			Timing:   "Keep your current rhythm",
			Position: "Elevate feet by 6 inches",
			Duration: "No more than 10 minutes",
			Tips:     "Keep doing what works",
		},
		stress: domain.Stress{
			Techniques:    []string{"Deep breathing exercises", "10-minute meditation"},
			DailyPractice: "Daily relaxation practice",
		},
		sleep: domain.Sleep{Duration: "7-8 hours", Bedtime: "Before 11 PM", Tips: "Avoid screens before bed"},
		tips: []string{
			"Continue your excellent habits",
			"Keep tracking for consistency",
			"Share your success with others",
		},
		nextCheck: "In 1 week",
		expectations: domain.Expectations{
			ShortTerm:  "Continued regularity over the next 3 days",
			MediumTerm: "Consistent ideal stools over 1 week",
			LongTerm:   "Lasting digestive health over 1 month",
		},
		monitoring: []string{"Color changes", "Shape changes", "Frequency"},
		triggers:   []string{"Any sustained change from Type 4", "New symptoms appear"},
		remedies:   []domain.Remedy{},
		quickTip:   "Excellent! Keep up your good habits",
		action:     "Maintain current routine",
	},
	// 5: soft blobs
	{
		level:   domain.LevelGood,
		concern: "Slightly loose, watch food hygiene",
		diet: []string{
			"Reduce fatty foods",
			"Avoid excessive fiber",
			"Check food hygiene",
		},
		lifestyle: "Regular schedule, manage stress",
		warnings:  []string{"Monitor if persistent"},
		avoid:     []string{"Spicy foods", "Coffee"},
		meals: domain.MealPlan{
			Breakfast: "Plain porridge + steamed egg",
			Lunch:     "Clear soup noodles + blanched vegetables",
			Dinner:    "Congee + stir-fried vegetables",
			Snacks:    "Crackers",
		},
		water: "2000ml, avoid ice water",
		supplements: []domain.Supplement{
			{Name: "Digestive enzymes", Dosage: "1 capsule", Timing: "Before meals", Reason: "Aid digestion"},
		},
		exercise: domain.Exercise{
			Type:      "Light yoga, walking",
			Duration:  "20-30 minutes",
			Frequency: "4-5 times per week",
			BestTime:  "1 hour after meals",
		},
		toilet: domain.ToiletHabits{
			Timing:   "When you feel the urge; don't hold it",
			Position: "Sit comfortably, feet flat",
			Duration: "No more than 10 minutes",
			Tips:     "Wash hands thoroughly and note any urgency",
		},
		stress: domain.Stress{
			Techniques:    []string{"Box breathing", "Gentle evening stretches"},
			DailyPractice: "Short breaks between busy tasks",
		},
		sleep: domain.Sleep{Duration: "7-8 hours", Bedtime: "Before 11 PM", Tips: "Avoid late heavy meals"},
		tips: []string{
			"Pay attention to food storage and hygiene",
			"Reduce eating out frequency",
			"Chew food thoroughly",
		},
		nextCheck: "In 3 days",
		expectations: domain.Expectations{
			ShortTerm:  "Firmer stools in 3 days",
			MediumTerm: "Normal stool form in 1 week",
			LongTerm:   "Stable digestion in 1 month",
		},
		monitoring: []string{"Stool consistency", "Urgency", "Foods eaten before loose stools"},
		triggers:   []string{"Loose stools for more than 3 days", "Stools turn watery"},
		remedies: []domain.Remedy{
			{Name: "Peppermint tea", Method: "Drink after meals", Frequency: "After each meal", Benefit: "Aids digestion"},
		},
		quickTip: "Watch food hygiene, avoid greasy foods",
		action:   "Check food hygiene",
	},
	// 6: mushy pieces
	{
		level:   domain.LevelAttention,
		concern: "Diarrhea needs management",
		diet: []string{
			"Avoid dairy temporarily",
			"Bland diet",
			"Replenish electrolytes",
		},
		lifestyle: "Rest well, small frequent meals",
		warnings:  []string{"Dehydration signs", "Fever"},
		avoid:     []string{"Dairy products", "High-fiber foods", "Fried foods"},
		meals: domain.MealPlan{
			Breakfast: "White toast + banana",
			Lunch:     "White rice + steamed fish",
			Dinner:    "Rice porridge + steamed egg",
			Snacks:    "White toast",
		},
		water: "2500ml, include electrolytes",
		supplements: []domain.Supplement{
			{Name: "Probiotics", Dosage: "20 billion CFU", Timing: "Empty stomach", Reason: "Restore gut balance"},
			{Name: "Electrolyte powder", Dosage: "1 packet", Timing: "As needed", Reason: "Replace lost electrolytes"},
		},
		exercise: domain.Exercise{
			Type:      "Pause intense exercise, light stretching",
			Duration:  "10-15 minutes",
			Frequency: "Daily while recovering",
			BestTime:  "When you feel rested",
		},
		toilet: domain.ToiletHabits{
			Timing:   "Stay close to a toilet while symptoms last",
			Position: "Sit comfortably, feet flat",
			Duration: "As needed, keep the area clean",
			Tips:     "Use gentle wipes and a barrier cream if irritated",
		},
		stress: domain.Stress{
			Techniques:    []string{"Slow breathing", "Rest in a quiet room"},
			DailyPractice: "Prioritize rest over obligations for a day or two",
		},
		sleep: domain.Sleep{Duration: "8-9 hours", Bedtime: "Before 10:30 PM", Tips: "Keep fluids by the bed"},
		tips: []string{
			"Follow BRAT diet temporarily",
			"Avoid caffeine and alcohol",
			"Eat small frequent meals",
		},
		nextCheck: "In 2 days",
		expectations: domain.Expectations{
			ShortTerm:  "Fewer loose movements in 3 days",
			MediumTerm: "Formed stools within 1 week",
			LongTerm:   "Restored gut balance in 1 month",
		},
		monitoring: []string{"Number of loose movements per day", "Signs of dehydration", "Body temperature"},
		triggers:   []string{"Diarrhea lasting more than 2 days", "Fever or severe cramps"},
		remedies: []domain.Remedy{
			{Name: "Rice water", Method: "Sip frequently", Frequency: "Every 2 hours", Benefit: "Provides nutrients and stops diarrhea"},
		},
		quickTip: "Replenish fluids and electrolytes, stick to bland diet temporarily",
		action:   "Replenish electrolytes, rest",
	},
	// 7: watery
	{
		level:   domain.LevelWarning,
		concern: "Severe diarrhea requires medical attention",
		diet: []string{
			"Immediate fluid and electrolyte replacement",
			"Fast temporarily",
			"BRAT diet",
		},
		lifestyle: "Seek medical evaluation immediately",
		warnings:  []string{"Severe dehydration", "Blood in stool", "High fever"},
		avoid:     []string{"All solid foods (temporarily)", "Dairy", "Caffeine"},
		meals: domain.MealPlan{
			Breakfast: "Electrolyte drink + plain porridge (small amount)",
			Lunch:     "Clear broth + white rice (small amount)",
			Dinner:    "Avoid eating or small amount of clear soup",
			Snacks:    "Avoid temporarily",
		},
		water: "3000ml+, with electrolyte drinks",
		supplements: []domain.Supplement{
			{Name: "Oral rehydration solution", Dosage: "250ml", Timing: "Every 2 hours", Reason: "Prevent dehydration"},
		},
		exercise: domain.Exercise{
			Type:      "Complete rest",
			Duration:  "None until recovered",
			Frequency: "Resume gradually after symptoms stop",
			BestTime:  "Not applicable",
		},
		toilet: domain.ToiletHabits{
			Timing:   "As needed",
			Position: "Sit comfortably, feet flat",
			Duration: "As needed",
			Tips:     "Record frequency and any blood for your doctor",
		},
		stress: domain.Stress{
			Techniques:    []string{"Slow breathing", "Lie down and rest"},
			DailyPractice: "Rest completely until evaluated",
		},
		sleep: domain.Sleep{Duration: "As much as needed", Bedtime: "Rest whenever tired", Tips: "Keep oral rehydration solution within reach"},
		tips: []string{
			"Seek medical evaluation immediately",
			"Document symptom changes",
			"Prepare medical history",
		},
		nextCheck: "Tomorrow morning",
		expectations: domain.Expectations{
			ShortTerm:  "Controlled fluid loss within 1-2 days with treatment",
			MediumTerm: "Return to soft, formed stools within 1 week",
			LongTerm:   "Full recovery of gut function in 1 month",
		},
		monitoring: []string{"Urine color and volume", "Number of watery movements", "Fever"},
		triggers:   []string{"Unable to keep fluids down", "Blood in stool or high fever"},
		remedies: []domain.Remedy{
			{Name: "Oral rehydration salts", Method: "Follow package instructions", Frequency: "Continuous", Benefit: "Prevents dehydration"},
		},
		quickTip: "Immediately rehydrate, seek medical attention if needed",
		action:   "Seek medical help immediately",
	},
}

// colorNote is the fixed guidance for one stool color.
type colorNote struct {
	advice     string
	prevention string
}

var colorNotes = map[string]colorNote{
	"Red": {
		advice:     "Red stool detected: if you have not eaten beets or red food coloring recently, contact a doctor promptly to rule out bleeding",
		prevention: "Record any red stool with date and recent foods so bleeding can be ruled out quickly",
	},
	"Black": {
		advice:     "Black stool detected: unless you take iron or bismuth, seek medical evaluation for possible upper digestive bleeding",
		prevention: "Keep a list of iron and bismuth products you take so black stool can be interpreted correctly",
	},
	"Green": {
		advice:     "Green stool detected: often caused by leafy greens or fast transit; moderate green vegetables and monitor for 2-3 days",
		prevention: "Balance leafy greens with other vegetables and watch whether green stool follows fast transit",
	},
	"Yellow": {
		advice:     "Yellow, greasy stool may signal fat malabsorption; reduce fatty foods and note any foul odor or floating",
		prevention: "Limit very fatty meals and report persistent yellow, greasy stool to a doctor",
	},
	"White": {
		advice:     "Pale or white stool may indicate a bile flow problem; consult a doctor if it persists beyond one day",
		prevention: "Check for pale stool together with dark urine or yellow skin, which need medical review",
	},
}

func colorAdvice(color string) string {
	if note, ok := colorNotes[color]; ok {
		return note.advice
	}
	return fmt.Sprintf("%s color noted: monitor the next few bowel movements and record any changes", color)
}

func colorPrevention(color string) string {
	if note, ok := colorNotes[color]; ok {
		return note.prevention
	}
	return fmt.Sprintf("Track %s coloration over the coming week and mention it at your next checkup", color)
}

var volumeAdvice = map[string]string{
	domain.VolumeSmall: "Small stool volume: raise fiber toward 25-30g per day and drink more fluids to add bulk",
	domain.VolumeLarge: "Large stool volume: review portion sizes and fat intake, and watch for signs of malabsorption",
}

var volumePrevention = map[string]string{
	domain.VolumeSmall: "Keep fiber and fluid intake consistent every day to maintain normal stool bulk",
	domain.VolumeLarge: "Keep meal portions moderate and note whether large movements follow specific foods",
}

var (
	constipationPrevention = []string{
		"Establish regular meal times",
		"Consume 25-30g dietary fiber daily",
		"Develop consistent toilet habits",
	}
	loosePrevention = []string{
		"Practice food safety and hygiene",
		"Avoid overeating",
		"Manage stress levels",
	}
	wellnessPrevention = []string{
		"Maintain balanced diet",
		"Exercise regularly",
		"Get adequate sleep",
	}
)

var gingerTea = domain.Remedy{
	Name:      "Ginger tea",
	Method:    "Steep 3-4 slices of fresh ginger in hot water for 10 minutes",
	Frequency: "Twice daily after meals",
	Benefit:   "Settles digestion while stool color returns to normal",
}

var ironNote = domain.Supplement{
	Name:   "Avoid iron supplements",
	Dosage: "None",
	Timing: "Until evaluated by a doctor",
	Reason: "Iron darkens stool and can mask signs of bleeding",
}

func init() {
	for i, tpl := range templates {
		if err := tpl.check(); err != nil {
			panic(fmt.Sprintf("advice: incomplete template for Bristol type %d: %v", i+1, err))
		}
	}
}

func (tpl typeTemplate) check() error {
	required := map[string]string{
		"level":     tpl.level,
		"concern":   tpl.concern,
		"lifestyle": tpl.lifestyle,
		"breakfast": tpl.meals.Breakfast,
		"lunch":     tpl.meals.Lunch,
		"dinner":    tpl.meals.Dinner,
		"snacks":    tpl.meals.Snacks,
		"water":     tpl.water,
		"exercise":  tpl.exercise.Type,
		"nextCheck": tpl.nextCheck,
		"quickTip":  tpl.quickTip,
		"action":    tpl.action,
	}
	for name, v := range required {
		if v == "" {
			return fmt.Errorf("missing %s", name)
		}
	}
	if len(tpl.diet) < 2 {
		return fmt.Errorf("diet needs at least 2 items, has %d", len(tpl.diet))
	}
	if len(tpl.tips) != 3 {
		return fmt.Errorf("tips needs 3 items, has %d", len(tpl.tips))
	}
	if tpl.warnings == nil || tpl.avoid == nil || tpl.supplements == nil || tpl.remedies == nil {
		return fmt.Errorf("list fields must not be nil")
	}
	return nil
}

// templateFor returns the template for t, using the ideal type for anything
// outside the scale so the generator never fails.
func templateFor(t domain.BristolType) typeTemplate {
	if !t.Valid() {
		return templates[3]
	}
	return templates[t.Index()]
}
