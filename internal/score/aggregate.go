package score

// StructuralAggregate summarizes structural scores across a batch:
// arithmetic means for numeric metrics, percentages for booleans.
// Callers must guarantee at least one score; an empty batch is a
// contract violation and yields NaN values.
type StructuralAggregate struct {
	AvgHeadings       float64 `json:"avg_headings"`
	AvgCodeBlocks     float64 `json:"avg_code_blocks"`
	PctHasInstall     float64 `json:"pct_has_install"`
	PctHasUsage       float64 `json:"pct_has_usage"`
	PctHasDescription float64 `json:"pct_has_description"`
	AvgBulletPoints   float64 `json:"avg_bullet_points"`
	AvgLength         float64 `json:"avg_length"`
	AvgLines          float64 `json:"avg_lines"`
}

// AggregateStructural folds a batch of structural scores into means and
// true-percentages.
func AggregateStructural(scores []Structural) StructuralAggregate {
	var agg StructuralAggregate
	for _, s := range scores {
		agg.AvgHeadings += float64(s.NumHeadings)
		agg.AvgCodeBlocks += float64(s.NumCodeBlocks)
		agg.AvgBulletPoints += float64(s.NumBulletPoints)
		agg.AvgLength += float64(s.TotalLength)
		agg.AvgLines += float64(s.TotalLines)
		if s.HasInstallSection {
			agg.PctHasInstall++
		}
		if s.HasUsageSection {
			agg.PctHasUsage++
		}
		if s.HasDescription {
			agg.PctHasDescription++
		}
	}

	n := float64(len(scores))
	agg.AvgHeadings /= n
	agg.AvgCodeBlocks /= n
	agg.AvgBulletPoints /= n
	agg.AvgLength /= n
	agg.AvgLines /= n
	agg.PctHasInstall = agg.PctHasInstall / n * 100
	agg.PctHasUsage = agg.PctHasUsage / n * 100
	agg.PctHasDescription = agg.PctHasDescription / n * 100
	return agg
}

// AggregateOverlap averages overlap scores across a batch. Same empty-
// batch contract as AggregateStructural.
func AggregateOverlap(scores []Overlap) Overlap {
	var agg Overlap
	for _, s := range scores {
		agg.Rouge1 += s.Rouge1
		agg.Rouge2 += s.Rouge2
		agg.RougeL += s.RougeL
	}
	n := float64(len(scores))
	agg.Rouge1 /= n
	agg.Rouge2 /= n
	agg.RougeL /= n
	return agg
}
