package domain

// Exams lists the entrance exams counselling is offered for, in canonical spelling.
var Exams = []string{"NEET-UG", "NEET-PG", "NEET-MDS", "INI-CET", "AIAPGET", "BAMS", "Other"}

// BamsCategories lists reservation categories.
var BamsCategories = []string{"general", "obc", "sc", "st", "ews"}

// CounselingTypes lists the BAMS counselling rounds an applicant can target.
var CounselingTypes = []string{"state", "all-india", "deemed", "private"}

// BlogStatuses lists valid blog states.
var BlogStatuses = []string{BlogStatusDraft, BlogStatusPublished}
