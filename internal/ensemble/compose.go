package ensemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/satuatap/credit-decision-service/internal/models"
)

const (
	// Per-evaluator and overall caps on the explanation list.
	maxReasonsPerSource = 2
	maxEvaluatorReasons = 6
	maxTotalReasons     = 10

	// Advisory notes are trimmed to this many characters in the summary.
	maxNotesLength = 350

	summaryDisclaimer = " Catatan: angka cicilan bulanan bersifat estimasi dan dapat berubah mengikuti ketentuan produk dan pergerakan suku bunga mengambang (floating)."
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// pickDistinct keeps the first distinct non-empty entries, at most
// maxReasonsPerSource of them.
func pickDistinct(xs []string) []string {
	var out []string
	for _, x := range xs {
		if x == "" || contains(out, x) {
			continue
		}
		out = append(out, x)
		if len(out) >= maxReasonsPerSource {
			break
		}
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// ComposeReasons merges the evaluator reasons in priority order: the gate's
// hard-limit findings first, then the policy rules, then the advisory model.
// An empty merge is replaced by one generic reason keyed to the decision.
func ComposeReasons(decision models.Decision, gateReasons, rulesReasons, advisoryReasons []string) []string {
	reasons := pickDistinct(gateReasons)
	reasons = append(reasons, pickDistinct(rulesReasons)...)
	reasons = append(reasons, pickDistinct(advisoryReasons)...)

	if len(reasons) == 0 {
		if decision == models.DecisionApprove {
			reasons = []string{"Parameter risiko utama dinilai memadai untuk kategori produk ini."}
		} else {
			reasons = []string{"Beberapa indikator risiko berada di atas batas kebijakan internal."}
		}
	}
	if len(reasons) > maxEvaluatorReasons {
		reasons = reasons[:maxEvaluatorReasons]
	}
	return reasons
}

// MetricBullets renders the five lay-reader explanations of the underlying
// numbers. Every unknown value is shown as the fixed placeholder instead of
// being dropped, so the list shape is stable.
func MetricBullets(profile map[string]any, d Derived, cfg PolicyConfig) []string {
	income := optionalNumberAt(profile, "data", "userInfo", "monthlyIncome")
	installment := optionalNumberAt(profile, "data", "monthlyInstallment")
	loan := optionalNumberAt(profile, "data", "loanAmount")
	propVal := optionalNumberAt(profile, "data", "propertyValue")

	return []string{
		fmt.Sprintf("Estimasi rasio cicilan terhadap penghasilan (DTI): **%s** (acuan internal %d%%).",
			pct(d.DTI), int(cfg.MaxDTI*100)),
		fmt.Sprintf("Estimasi rasio pinjaman terhadap nilai properti (LTV): **%s** (acuan internal %d%%).",
			pct(d.LTV), int(cfg.MaxLTV*100)),
		fmt.Sprintf("Perkiraan skor kredit edukatif: **%s** (target minimal %d).",
			intOrDash(d.Score), int(cfg.MinScore)),
		fmt.Sprintf("Estimasi cicilan bulanan: **%s**; estimasi penghasilan bulanan: **%s**.",
			fmtMoney(installment), fmtMoney(income)),
		fmt.Sprintf("Estimasi pinjaman: **%s**; estimasi nilai properti: **%s**.",
			fmtMoney(loan), fmtMoney(propVal)),
	}
}

func optionalNumberAt(doc map[string]any, path ...string) *float64 {
	if v, ok := numberAt(doc, path...); ok {
		return &v
	}
	return nil
}

// BuildSummary writes the single user-facing paragraph: a decision-keyed
// opener, improvement tips for each violated metric on a rejection, the
// advisory notes (collapsed and truncated) and the fixed floating-rate
// disclaimer. Internal process details never appear here.
func BuildSummary(decision models.Decision, d Derived, cfg PolicyConfig, notes string) string {
	var b strings.Builder
	if decision == models.DecisionApprove {
		b.WriteString("Berdasarkan evaluasi menyeluruh, pengajuan **dapat disetujui**. " +
			"Profil risiko berada dalam rentang yang dinilai wajar untuk produk sejenis.")
	} else {
		b.WriteString("Untuk saat ini pengajuan **belum dapat kami setujui**. " +
			"Pertimbangan ini diambil agar komitmen cicilan tetap sejalan dengan kemampuan bayar yang berkelanjutan.")
	}

	if decision == models.DecisionReject {
		var tips []string
		if d.DTI != nil && *d.DTI > cfg.MaxDTI {
			tips = append(tips, "menurunkan rasio cicilan terhadap penghasilan (misalnya dengan menaikkan uang muka atau menyesuaikan tenor)")
		}
		if d.LTV != nil && *d.LTV > cfg.MaxLTV {
			tips = append(tips, fmt.Sprintf("menurunkan rasio pinjaman terhadap nilai properti (LTV) hingga ≤%d%%", int(cfg.MaxLTV*100)))
		}
		if d.Score != nil && *d.Score < cfg.MinScore {
			tips = append(tips, "menjaga riwayat pembayaran tetap baik dan mengurangi pengajuan kredit baru untuk sementara waktu")
		}
		if len(tips) > 0 {
			b.WriteString(" Sebagai masukan, pertimbangkan " + strings.Join(tips, "; ") + ".")
		}
	}

	if note := strings.TrimSpace(notes); note != "" && note != notesPlaceholder {
		note = whitespaceRun.ReplaceAllString(note, " ")
		if r := []rune(note); len(r) > maxNotesLength {
			note = string(r[:maxNotesLength-3]) + "..."
		}
		b.WriteString(" " + note)
	}

	b.WriteString(summaryDisclaimer)
	return b.String()
}
