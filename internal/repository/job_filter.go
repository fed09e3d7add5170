package repository

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 把用户输入转成 ILIKE 的子串匹配模式，输入中的通配符按字面量处理
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// buildJobFilter 根据过滤条件生成 WHERE 子句以及对应的参数，没有条件时返回空字符串
func buildJobFilter(f domain.JobFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := next(containsPattern(f.Search))
		conds = append(conds, fmt.Sprintf(`(j.title ILIKE %s OR j.description ILIKE %s)`, p, p))
	}
	if f.Location != "" {
		conds = append(conds, "j.location ILIKE "+next(containsPattern(f.Location)))
	}
	if f.Type != "" {
		conds = append(conds, "j.type = "+next(string(f.Type)))
	}
	if f.Experience != "" {
		conds = append(conds, "j.experience ILIKE "+next(containsPattern(f.Experience)))
	}
	if f.CompanyID != "" {
		conds = append(conds, "j.company_id = "+next(f.CompanyID))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

type listJobsQuery struct {
	count     string
	countArgs []any
	page      string
	pageArgs  []any
}

// buildListJobsQuery 生成计数语句和分页语句，分页语句的参数在过滤参数之后依次是 limit 和 offset
func buildListJobsQuery(f domain.JobFilter) listJobsQuery {
	where, args := buildJobFilter(f)

	from := jobFrom
	if where != "" {
		from += " " + where
	}

	pageArgs := make([]any, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, f.Limit, f.Offset())

	return listJobsQuery{
		count:     `SELECT COUNT(*) ` + from,
		countArgs: args,
		page: fmt.Sprintf(`SELECT %s %s ORDER BY j.created_at DESC, j.id LIMIT $%d OFFSET $%d`,
			jobColumns, from, len(args)+1, len(args)+2),
		pageArgs: pageArgs,
	}
}
