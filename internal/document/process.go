package document

// Result is the outcome of running one document through the pipeline.
type Result struct {
	Type   DocumentType
	Fields *FieldMap
	Record OutputRecord
	Stage  Stage
}

// Observer is told about each lifecycle stage a document reaches.
type Observer func(stage Stage, t DocumentType)

// Process classifies the recognized lines, extracts fields and normalizes
// them. A Desconocido document still runs every stage and ends with the
// error-shaped record.
func Process(lines []string) Result {
	return Run(NewRecognizedText(lines), nil)
}

// ProcessText is Process for a newline separated block of text.
func ProcessText(text string) Result {
	return Run(SplitText(text), nil)
}

// Run drives the Received, Classified, Extracted, Normalized and Done
// stages in order, reporting each to observe when it is non-nil.
func Run(rt RecognizedText, observe Observer) Result {
	notify := func(s Stage, t DocumentType) {
		if observe != nil {
			observe(s, t)
		}
	}

	notify(StageReceived, "")
	text := rt.Text()

	t := Classify(text)
	notify(StageClassified, t)

	fields := Extract(text, PatternsFor(t), years)
	notify(StageExtracted, t)

	rec := Normalize(t, fields)
	notify(StageNormalized, t)

	notify(StageDone, t)
	return Result{Type: t, Fields: fields, Record: rec, Stage: StageDone}
}
