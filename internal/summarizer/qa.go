package summarizer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var citationRefPattern = regexp.MustCompile(`\[(\d+)\]`)

// QACheck 检查摘要中的引用编号与引用列表是否一致，返回问题列表
func QACheck(summary string, citations []string) []string {
	var issues []string

	refs := make(map[int]bool)
	for _, m := range citationRefPattern.FindAllStringSubmatch(summary, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		refs[n] = true
	}

	if len(citations) > 0 && len(refs) == 0 {
		issues = append(issues, "no citations referenced despite available sources")
	}
	if len(citations) == 0 && len(refs) > 0 {
		issues = append(issues, "references citation markers but no citations were supplied")
	}

	var invalid []int
	for n := range refs {
		if n < 1 || n > len(citations) {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		issues = append(issues, "invalid citation ids: "+joinInts(invalid))
	}

	if len(citations) > 1 {
		var unused []int
		for n := 1; n <= len(citations); n++ {
			if !refs[n] {
				unused = append(unused, n)
			}
		}
		if len(unused) > 0 {
			issues = append(issues, "unused citations: "+joinInts(unused))
		}
	}

	return issues
}

func joinInts(nums []int) string {
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
