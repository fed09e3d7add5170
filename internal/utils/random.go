package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() (surname, givenName string) {
	surname = commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1

	for i := 0; i < nameLength; i++ {
		givenName += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, givenName
}

var digits = "0123456789"

// GenerateEmailLocalPart 把中文转成拼音并追加随机数字，例如 “张伟” -> “zhangwei42”
func GenerateEmailLocalPart(chinese string) string {
	var sb strings.Builder
	for _, p := range pinyin.LazyConvert(chinese, nil) {
		sb.WriteString(p)
	}

	digitsLength := rand.Intn(3) + 2
	for i := 0; i < digitsLength; i++ {
		sb.WriteByte(digits[rand.Intn(len(digits))])
	}

	return sb.String()
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var companyPrefixes = []string{"星辰", "云帆", "蓝海", "远景", "启明", "锦程", "智造", "青禾", "天元", "恒通"}
var companySuffixes = []string{"科技", "网络", "信息技术", "数据", "软件", "智能"}
var cities = []string{"北京", "上海", "广州", "深圳", "杭州", "成都", "武汉", "南京", "Paris", "Berlin"}

// GenerateRandomCompanyProfile 生成的网站地址由公司名的拼音转换为 slug 得到
func GenerateRandomCompanyProfile(userID string) *domain.CompanyProfile {
	prefix := companyPrefixes[rand.Intn(len(companyPrefixes))]
	suffix := companySuffixes[rand.Intn(len(companySuffixes))]
	name := prefix + suffix + "有限公司"
	site := slug.Make(strings.Join(pinyin.LazyConvert(prefix+suffix, nil), " "))

	return &domain.CompanyProfile{
		UserID:      userID,
		CompanyName: name,
		Description: name + "成立于" + fmt.Sprint(1990+rand.Intn(35)) + "年，专注于" + suffix + "领域。",
		Website:     "https://www." + site + ".com",
		LogoURL:     "https://www." + site + ".com/logo.png",
		Location:    cities[rand.Intn(len(cities))],
	}
}

func GenerateRandomCandidateProfile(userID, surname, givenName string) *domain.CandidateProfile {
	return &domain.CandidateProfile{
		UserID:    userID,
		FirstName: givenName,
		LastName:  surname,
		Phone:     "1" + fmt.Sprintf("%010d", rand.Int63n(1e10)),
		Bio:       "热爱技术，期待新的机会。",
	}
}

var jobTitles = []string{"后端开发工程师", "前端开发工程师", "测试工程师", "产品经理", "数据分析师", "运维工程师", "UI 设计师", "Go Developer"}
var experiences = []string{"应届生", "1-3 年", "3-5 年", "5-10 年", "不限"}
var jobTypes = []domain.JobType{
	domain.JobTypeFullTime,
	domain.JobTypePartTime,
	domain.JobTypeContract,
	domain.JobTypeInternship,
	domain.JobTypeFreelance,
}

func GenerateRandomJob(companyID string) *domain.Job {
	title := jobTitles[rand.Intn(len(jobTitles))]
	job := &domain.Job{
		Title:       title,
		Description: "负责" + title + "相关工作，要求具备良好的沟通能力。",
		Location:    cities[rand.Intn(len(cities))],
		Experience:  experiences[rand.Intn(len(experiences))],
		Type:        jobTypes[rand.Intn(len(jobTypes))],
		CompanyID:   companyID,
	}

	// 部分职位不公开薪资
	if rand.Intn(4) > 0 {
		lo := (rand.Intn(20) + 5) * 1000
		hi := lo + (rand.Intn(10)+1)*1000
		job.SalaryMin = &lo
		job.SalaryMax = &hi
	}

	return job
}
