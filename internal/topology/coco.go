package topology

// CocoPerson returns the 17-keypoint COCO person layout.
func CocoPerson() Topology {
	return Topology{
		Name: "cocokp",
		Keypoints: []string{
			"nose",
			"left_eye",
			"right_eye",
			"left_ear",
			"right_ear",
			"left_shoulder",
			"right_shoulder",
			"left_elbow",
			"right_elbow",
			"left_wrist",
			"right_wrist",
			"left_hip",
			"right_hip",
			"left_knee",
			"right_knee",
			"left_ankle",
			"right_ankle",
		},
		Skeleton: []Edge{
			{16, 14}, {14, 12}, {17, 15}, {15, 13}, {12, 13}, {6, 12}, {7, 13},
			{6, 7}, {6, 8}, {7, 9}, {8, 10}, {9, 11}, {2, 3}, {1, 2}, {1, 3},
			{2, 4}, {3, 5}, {4, 6}, {5, 7},
		},
		Sigmas: []float64{
			0.026, // nose
			0.025, // eyes
			0.025,
			0.035, // ears
			0.035,
			0.079, // shoulders
			0.079,
			0.072, // elbows
			0.072,
			0.062, // wrists
			0.062,
			0.107, // hips
			0.107,
			0.087, // knees
			0.087,
			0.089, // ankles
			0.089,
		},
	}
}
