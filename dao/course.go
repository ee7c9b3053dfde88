package dao

import (
	"context"

	"Campus/models"

	"gorm.io/gorm"
)

type CourseDAO struct {
	db *gorm.DB
}

func NewCourseDAO(db *gorm.DB) *CourseDAO {
	return &CourseDAO{db: db}
}

func (d *CourseDAO) GetByID(ctx context.Context, courseID int64) (*models.Course, error) {
	var course models.Course
	err := d.db.WithContext(ctx).Where("id = ?", courseID).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// CourseTitles 批量取课程标题，帖子列表的上下文展示用
func (d *CourseDAO) CourseTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	return d.titlesOf(ctx, &models.Course{}, ids)
}

func (d *CourseDAO) ModuleTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	return d.titlesOf(ctx, &models.CourseModule{}, ids)
}

func (d *CourseDAO) LessonTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	return d.titlesOf(ctx, &models.Lesson{}, ids)
}

func (d *CourseDAO) titlesOf(ctx context.Context, model interface{}, ids []int64) (map[int64]string, error) {
	result := make(map[int64]string)
	if len(ids) == 0 {
		return result, nil
	}

	type row struct {
		ID    int64
		Title string
	}
	var rows []row
	err := d.db.WithContext(ctx).
		Model(model).
		Select("id, title").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.ID] = r.Title
	}
	return result, nil
}

// EnrolledUserIDs 某课程的全部报名用户，课程更新广播用
func (d *CourseDAO) EnrolledUserIDs(ctx context.Context, courseID int64) ([]int64, error) {
	var ids []int64
	err := d.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (d *CourseDAO) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	return d.db.WithContext(ctx).Create(e).Error
}

func (d *CourseDAO) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}
