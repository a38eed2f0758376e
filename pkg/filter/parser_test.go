package filter

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	DescribeTable("should build the expression tree",
		func(src, expected string) {
			expr, err := Parse([]byte(src))
			Expect(err).NotTo(HaveOccurred())
			Expect(expr.String()).To(Equal(expected))
		},
		Entry("comparison", "kind = 'pdf'", `(kind equal "pdf")`),
		Entry("and binds tighter than or",
			"kind = 'pdf' or kind = 'html' and size > 1MB",
			`((kind equal "pdf") or ((kind equal "html") and (size greater 1MB)))`),
		Entry("brackets",
			"(kind = 'pdf' or kind = 'html') and size > 1MB",
			`(((kind equal "pdf") or (kind equal "html")) and (size greater 1MB))`),
		Entry("regex", "filename ~ /^Q3/", "(filename like /^Q3/)"),
		Entry("size without unit", "size <= 512", "(size lte 512)"),
	)

	DescribeTable("should render SQL",
		func(src, expected string) {
			expr, err := Parse([]byte(src))
			Expect(err).NotTo(HaveOccurred())
			Expect(expr.Sql()).To(Equal(expected))
		},
		Entry("string comparison", "kind = 'pdf'", `("kind" = 'pdf')`),
		Entry("quotes are escaped", `filename = "it's.pdf"`, `("filename" = 'it''s.pdf')`),
		Entry("field names are case insensitive", "KIND != 'xlsx'", `("kind" != 'xlsx')`),
		Entry("regex", "filename ~ /^Q3/", `regexp_matches("filename", '^Q3')`),
		Entry("negated regex", "filename !~ /\\.pdf$/", `NOT regexp_matches("filename", '\.pdf$')`),
		Entry("size in bytes", "size >= 1.5KB", `("size" >= 1536)`),
		Entry("size in gigabytes", "size < 2GB", `("size" < 2147483648)`),
		Entry("logical operators",
			"assessment_id = 'a1' and (size > 1MB or content_type = 'text/html')",
			`(("assessment_id" = 'a1') AND (("size" > 1048576) OR ("content_type" = 'text/html')))`),
		Entry("timestamp", "created_at >= '2026-01-01'", `("created_at" >= '2026-01-01')`),
	)

	DescribeTable("should reject invalid filters",
		func(src string, position int, message string) {
			expr, err := Parse([]byte(src))
			Expect(expr).To(BeNil())
			Expect(err).To(HaveOccurred())

			var pe ParseError
			Expect(err).To(BeAssignableToTypeOf(pe))
			pe = err.(ParseError)
			Expect(pe.Position).To(Equal(position))
			Expect(pe.Message).To(ContainSubstring(message))
		},
		Entry("empty input", "", 0, "expected field instead of eol"),
		Entry("unknown field", "path = '/tmp'", 0, `unknown field "path"`),
		Entry("missing operator", "kind 'pdf'", 5, "expected operator"),
		Entry("missing value", "kind =", 6, "expected value instead of eol"),
		Entry("regex as value", "kind = /pdf/", 7, "expected value"),
		Entry("string after like", "filename ~ 'pdf'", 11, "expected regexLit instead of stringLit"),
		Entry("invalid regex", "filename ~ /[a/", 11, "invalid regex"),
		Entry("unclosed bracket", "(kind = 'pdf'", 13, "expected rbracket instead of eol"),
		Entry("trailing tokens", "kind = 'pdf' kind", 13, "expected eol instead of field"),
		Entry("dangling and", "kind = 'pdf' and", 16, "expected field instead of eol"),
		Entry("lexer error", "kind = 'pdf", 7, "unclosed string"),
	)
})
