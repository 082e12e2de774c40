package upcycle

// Idea is a reuse project from the built-in knowledge base.
type Idea struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Materials  []string `json:"materials"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Summary    string   `json:"summary"`
	Steps      []string `json:"steps"`
}

// knowledgeBase is the built-in project catalog. Ordering matters: the
// first two entries double as the fallback suggestions when nothing
// matches a query.
var knowledgeBase = []Idea{
	{
		ID:         1,
		Title:      "Self-Watering Planter from Plastic Bottle",
		Materials:  []string{"2L plastic bottle", "cotton rope", "potting soil", "plant"},
		Category:   "plastic_bottle",
		Difficulty: "easy",
		Summary:    "Turn a plastic bottle into a self-watering planter for small herbs.",
		Steps: []string{
			"Cut the plastic bottle roughly in the middle.",
			"Make a small hole in the cap and insert a cotton rope as a wick.",
			"Fill the top part with soil and plant, and add water to the bottom part.",
			"Place the top part upside down into the bottom half so the wick touches the water.",
		},
	},
	{
		ID:         2,
		Title:      "Desk Organizer from Cardboard Box",
		Materials:  []string{"shoe box", "toilet paper rolls", "glue", "paint or wrapping paper"},
		Category:   "cardboard",
		Difficulty: "easy",
		Summary:    "Reuse a shoe box and rolls to organize pens, markers and small items.",
		Steps: []string{
			"Cut the shoe box lid and base to desired height.",
			"Glue toilet paper rolls vertically inside to create compartments.",
			"Cover the outside with paint or wrapping paper for a clean look.",
			"Use sections for pens, clips, notes, and other stationery.",
		},
	},
	{
		ID:         3,
		Title:      "Eco-Friendly Shopping Bag from Old T-Shirt",
		Materials:  []string{"old t-shirt", "scissors", "needle and thread or fabric glue"},
		Category:   "textile",
		Difficulty: "medium",
		Summary:    "Convert an old t-shirt into a reusable shopping bag without buying new fabric.",
		Steps: []string{
			"Lay the t-shirt flat and cut off the sleeves and neck to form handles.",
			"Turn the shirt inside out and sew or glue the bottom edge closed.",
			"Optionally cut small slits along the bottom before tying for a fringed style.",
			"Turn it right side out and your upcycled bag is ready.",
		},
	},
	{
		ID:         4,
		Title:      "Bird Feeder from Plastic Bottle",
		Materials:  []string{"1-2L plastic bottle", "two wooden spoons or sticks", "string", "bird seed"},
		Category:   "plastic_bottle",
		Difficulty: "easy",
		Summary:    "Create a simple hanging bird feeder from a plastic bottle.",
		Steps: []string{
			"Clean and dry the bottle.",
			"Cut two small holes opposite each other near the bottom and push a spoon or stick through.",
			"Make small openings above the spoons so seeds can spill onto them.",
			"Fill with bird seed, attach string to the top, and hang in a safe spot.",
		},
	},
	{
		ID:         5,
		Title:      "Storage Basket from Newspaper or Magazine Rolls",
		Materials:  []string{"old newspapers or magazines", "glue", "cardboard base", "paint (optional)"},
		Category:   "paper",
		Difficulty: "medium",
		Summary:    "Roll and weave old newspapers into a sturdy storage basket.",
		Steps: []string{
			"Roll newspaper pages diagonally into tight tubes and glue the ends.",
			"Create a cardboard base and glue tubes around the edges.",
			"Weave additional tubes in and out to build up the sides.",
			"Trim edges, glue to secure, and paint if desired.",
		},
	},
	{
		ID:         6,
		Title:      "Laptop Stand from Cardboard",
		Materials:  []string{"thick cardboard", "cutter", "ruler", "glue or tape"},
		Category:   "cardboard",
		Difficulty: "medium",
		Summary:    "Make an angled laptop stand to improve airflow using only cardboard.",
		Steps: []string{
			"Measure your laptop width and cut two identical side pieces with a gentle slope.",
			"Cut cross-support pieces to connect the sides.",
			"Glue or tape the structure firmly and let it dry.",
			"Optionally cover with paper or fabric for a cleaner look.",
		},
	},
	{
		ID:         7,
		Title:      "Seedling Trays from Egg Cartons",
		Materials:  []string{"paper egg cartons", "soil", "seeds", "tray or plate"},
		Category:   "paper",
		Difficulty: "easy",
		Summary:    "Use paper egg cartons as biodegradable seed starters.",
		Steps: []string{
			"Place the egg carton on a tray to catch water.",
			"Fill each cup with potting soil.",
			"Sow seeds as per packet instructions and water lightly.",
			"When seedlings are strong, cut cups apart and plant directly into the soil.",
		},
	},
	{
		ID:         8,
		Title:      "Hanging Garden from Plastic Bottles",
		Materials:  []string{"several plastic bottles", "rope or wire", "soil", "plants"},
		Category:   "plastic_bottle",
		Difficulty: "hard",
		Summary:    "Create a vertical garden on a wall or balcony using bottles.",
		Steps: []string{
			"Cut rectangular openings on the side of each bottle.",
			"Make holes on the ends and thread rope or wire through to hang them horizontally.",
			"Fill with soil and plant herbs or small flowering plants.",
			"Mount on a wall or railing ensuring good sunlight and drainage.",
		},
	},
}
